// Package notification surfaces "new booking" alerts for the admin back office by
// polling the bookings API and diffing each fetch against what was already seen.
package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record is the slice of a booking the poller needs, as returned newest-first by the API.
type Record struct {
	ID               string `json:"id"`
	Sequence         int64  `json:"sequence"`
	BookingReference string `json:"booking_reference"`
	GuestName        string `json:"guest_name"`
	RoomName         string `json:"room_name"`
	Status           string `json:"status"`
}

type Notification struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	Sequence  int64     `json:"sequence"`
	Reference string    `json:"booking_reference"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func newNotification(record Record, now time.Time) Notification {
	return Notification{
		ID:        uuid.NewString(),
		BookingID: record.ID,
		Sequence:  record.Sequence,
		Reference: record.BookingReference,
		Message:   fmt.Sprintf("New booking %s from %s for %s", record.BookingReference, record.GuestName, record.RoomName),
		CreatedAt: now,
	}
}
