package model

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/shared/model"
	"hostel/shared/timezone"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	TableName  = "activities"
	EntityName = "activity"

	FieldID                  = "id"
	FieldName                = "name"
	FieldDescription         = "description"
	FieldPrice               = "price"
	FieldDurationMinutes     = "duration_minutes"
	FieldMinParticipants     = "min_participants"
	FieldMaxParticipants     = "max_participants"
	FieldDifficultyLevel     = "difficulty_level"
	FieldAvailableDays       = "available_days"
	FieldStartTime           = "start_time"
	FieldEndTime             = "end_time"
	FieldActive              = "active"
	FieldAdvanceBookingHours = "advance_booking_hours"
	FieldImage               = "image"
)

const (
	DifficultyEasy     = "easy"
	DifficultyModerate = "moderate"
	DifficultyHard     = "hard"
)

type Activity struct {
	ID                  string          `db:"id"`
	Name                string          `db:"name"`
	Description         string          `db:"description"`
	Price               decimal.Decimal `db:"price"`
	DurationMinutes     int             `db:"duration_minutes"`
	MinParticipants     int             `db:"min_participants"`
	MaxParticipants     int             `db:"max_participants"`
	DifficultyLevel     string          `db:"difficulty_level"`
	AvailableDays       pq.StringArray  `db:"available_days"`
	StartTime           string          `db:"start_time"`
	EndTime             string          `db:"end_time"`
	Active              bool            `db:"active"`
	AdvanceBookingHours int             `db:"advance_booking_hours"`
	Image               string          `db:"image"`
	model.Metadata
}

// Slot is a requested activity start.
type Slot struct {
	Date         time.Time
	Time         string
	Participants int
}

// OffersDay reports whether the weekday of date is listed. An empty list means every day.
func (a Activity) OffersDay(date time.Time) bool {
	if len(a.AvailableDays) == 0 {
		return true
	}

	return slices.Contains(a.AvailableDays, strings.ToLower(date.Weekday().String()))
}

// WithinHours reports whether clock falls in [StartTime, EndTime).
// HH:MM strings compare in clock order.
func (a Activity) WithinHours(clock string) bool {
	if a.StartTime == constant.Empty || a.EndTime == constant.Empty {
		return true
	}

	return clock >= a.StartTime && clock < a.EndTime
}

// StartsAt combines the slot date and clock in the application timezone.
func (s Slot) StartsAt() time.Time {
	clock, err := time.Parse(constant.ClockFormat, s.Time)
	if err != nil {
		return s.Date
	}

	y, m, d := s.Date.Date()

	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, timezone.GetLocation())
}

// CheckSlot validates a booking request against the activity schedule and limits.
func (a Activity) CheckSlot(slot Slot, now time.Time) error {
	errs := map[string][]string{}

	if slot.Participants < a.MinParticipants || slot.Participants > a.MaxParticipants {
		errs["participants"] = append(errs["participants"],
			fmt.Sprintf("participants must be between %d and %d", a.MinParticipants, a.MaxParticipants))
	}

	if !a.OffersDay(slot.Date) {
		errs["booking_date"] = append(errs["booking_date"],
			fmt.Sprintf("activity is not available on %s", strings.ToLower(slot.Date.Weekday().String())))
	}

	if _, err := time.Parse(constant.ClockFormat, slot.Time); err != nil {
		errs["booking_time"] = append(errs["booking_time"], "booking_time must be formatted as HH:MM")
	} else if !a.WithinHours(slot.Time) {
		errs["booking_time"] = append(errs["booking_time"],
			fmt.Sprintf("booking_time must be between %s and %s", a.StartTime, a.EndTime))
	}

	lead := time.Duration(a.AdvanceBookingHours) * time.Hour
	if slot.StartsAt().Before(now.Add(lead)) {
		errs["booking_date"] = append(errs["booking_date"],
			fmt.Sprintf("activity must be booked at least %d hours in advance", a.AdvanceBookingHours))
	}

	if len(errs) > 0 {
		return failure.Validation(constant.ResponseErrorValidation, errs) // nolint:wrapcheck
	}

	return nil
}

// CheckCapacity rejects a request that would take a session past MaxParticipants.
func (a Activity) CheckCapacity(reserved, participants int) error {
	if reserved+participants > a.MaxParticipants {
		return failure.Conflict(fmt.Sprintf("only %d places left for this session", max(0, a.MaxParticipants-reserved))) // nolint:wrapcheck
	}

	return nil
}

func (a Activity) Total(participants int) decimal.Decimal {
	return a.Price.Mul(decimal.NewFromInt(int64(participants))).Round(2) //nolint:mnd
}
