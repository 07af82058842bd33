package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"hostel/infras/broker"
	"hostel/internal/domains/booking/model"
	"hostel/shared"
	"hostel/shared/cache"

	"github.com/rs/zerolog/log"
)

const (
	cacheProcessedEvent = "event:processed"
	processedTTLSeconds = 24 * 60 * 60
)

// BookingEvents consumes booking lifecycle events.
// Each event is claimed in Redis before it is handled so redeliveries are skipped.
type BookingEvents struct {
	broker broker.Broker
	cache  cache.RedisCache
}

func NewBookingEvents(broker broker.Broker, cache cache.RedisCache) *BookingEvents {
	return &BookingEvents{
		broker: broker,
		cache:  cache,
	}
}

// Run blocks until ctx is done.
func (w *BookingEvents) Run(ctx context.Context) error {
	if err := w.broker.Consume(ctx, w.Handle); err != nil {
		return fmt.Errorf("failed to consume booking events: %w", err)
	}

	return nil
}

func processedKey(event model.StatusChangedEvent) string {
	return shared.BuildCacheKey(cacheProcessedEvent, event.BookingID, event.Type, event.To,
		strconv.FormatInt(event.OccurredAt.UnixNano(), 10))
}

// Handle never fails on a malformed body so the message is not redelivered forever.
func (w *BookingEvents) Handle(ctx context.Context, key string, body []byte) error {
	var event model.StatusChangedEvent

	if err := json.Unmarshal(body, &event); err != nil {
		log.Error().Err(err).Str("key", key).Msg("dropping malformed booking event")

		return nil
	}

	claimed, err := w.cache.SaveIfAbsent(ctx, processedKey(event), event.To, processedTTLSeconds)
	if err != nil {
		return fmt.Errorf("failed to claim booking event: %w", err)
	}

	if !claimed {
		log.Debug().Str("booking_id", event.BookingID).Str("type", event.Type).Msg("booking event already processed")

		return nil
	}

	log.Info().
		Str("type", event.Type).
		Str("booking_id", event.BookingID).
		Str("booking_reference", event.BookingReference).
		Int64("sequence", event.Sequence).
		Str("room_id", event.RoomID).
		Str("from", event.From).
		Str("to", event.To).
		Int("number_of_guests", event.NumberOfGuests).
		Time("occurred_at", event.OccurredAt).
		Msg("booking event")

	return nil
}
