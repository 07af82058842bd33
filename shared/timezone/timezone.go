package timezone

import (
	"fmt"
	"sync"
	"time"

	"hostel/config"
	"hostel/shared/constant"

	"github.com/rs/zerolog/log"
)

const defaultTimezone = "UTC"

var (
	mu          sync.RWMutex
	once        sync.Once
	appLocation *time.Location
)

// SetLocation switches the application timezone. Names are IANA identifiers such as "Asia/Jakarta".
func SetLocation(name string) error {
	if name == constant.Empty {
		name = defaultTimezone
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", name, err)
	}

	mu.Lock()
	appLocation = loc
	mu.Unlock()

	return nil
}

// load reads APP_TIMEZONE the first time a location is needed, falling back to UTC.
func load() {
	once.Do(func() {
		mu.RLock()
		configured := appLocation != nil
		mu.RUnlock()

		if configured {
			return
		}

		name := config.Get().App.Timezone
		if err := SetLocation(name); err != nil {
			log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, falling back to UTC")

			_ = SetLocation(defaultTimezone)

			return
		}

		log.Info().Str("timezone", name).Msg("Application timezone initialized")
	})
}

// GetLocation returns the application timezone.
func GetLocation() *time.Location {
	load()

	mu.RLock()
	defer mu.RUnlock()

	if appLocation == nil {
		return time.UTC
	}

	return appLocation
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(GetLocation())
}

// Today is midnight of the current hostel day.
func Today() time.Time {
	return StartOfDay(Now())
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ToAppTime converts a time to the application timezone.
func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// Parse parses value in the application timezone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation())
}

// Format formats t in the application timezone.
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
