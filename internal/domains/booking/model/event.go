package model

import "time"

const (
	EventCreated       = "booking.created"
	EventStatusChanged = "booking.status_changed"
	EventUpdated       = "booking.updated"
	EventDeleted       = "booking.deleted"
)

type StatusChangedEvent struct {
	Type             string    `json:"type"`
	BookingID        string    `json:"booking_id"`
	BookingReference string    `json:"booking_reference"`
	Sequence         int64     `json:"sequence"`
	RoomID           string    `json:"room_id"`
	GuestID          string    `json:"guest_id"`
	From             string    `json:"from,omitempty"`
	To               string    `json:"to"`
	NumberOfGuests   int       `json:"number_of_guests"`
	OccurredAt       time.Time `json:"occurred_at"`
}

func NewEvent(eventType string, booking Booking, from string, at time.Time) StatusChangedEvent {
	return StatusChangedEvent{
		Type:             eventType,
		BookingID:        booking.ID,
		BookingReference: booking.BookingReference,
		Sequence:         booking.Sequence,
		RoomID:           booking.RoomID,
		GuestID:          booking.GuestID,
		From:             from,
		To:               booking.Status,
		NumberOfGuests:   booking.NumberOfGuests,
		OccurredAt:       at,
	}
}
