package model

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"hostel/shared/failure"
	"hostel/shared/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TableName  = "activity_bookings"
	EntityName = "activity_booking"

	FieldID               = "id"
	FieldSequence         = "sequence"
	FieldBookingReference = "booking_reference"
	FieldActivityID       = "activity_id"
	FieldGuestID          = "guest_id"
	FieldBookingDate      = "booking_date"
	FieldBookingTime      = "booking_time"
	FieldParticipants     = "participants"
	FieldStatus           = "status"
	FieldSpecialRequests  = "special_requests"
	FieldConfirmedAt      = "confirmed_at"
	FieldCompletedAt      = "completed_at"
	FieldCancelledAt      = "cancelled_at"
	FieldTotalAmount      = "total_amount"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const referencePrefix = "AB"

var validTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// OccupyingStatuses hold places in an activity session.
var OccupyingStatuses = []string{StatusPending, StatusConfirmed}

type ActivityBooking struct {
	ID               string          `db:"id"`
	Sequence         int64           `db:"sequence"          readonly:"true"`
	BookingReference string          `db:"booking_reference"`
	ActivityID       string          `db:"activity_id"`
	GuestID          string          `db:"guest_id"`
	BookingDate      time.Time       `db:"booking_date"`
	BookingTime      string          `db:"booking_time"`
	Participants     int             `db:"participants"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	Status           string          `db:"status"`
	SpecialRequests  string          `db:"special_requests"`
	ConfirmedAt      *time.Time      `db:"confirmed_at"`
	CompletedAt      *time.Time      `db:"completed_at"`
	CancelledAt      *time.Time      `db:"cancelled_at"`
	model.Metadata

	ActivityName   string `db:"activity_name"    table:"activities" column:"name"`
	GuestFirstName string `db:"guest_first_name" table:"guests"     column:"first_name"`
	GuestLastName  string `db:"guest_last_name"  table:"guests"     column:"last_name"`
	GuestEmail     string `db:"guest_email"      table:"guests"     column:"email"`
}

func (ActivityBooking) GetJoinQuery() string {
	return "JOIN activities ON activities.id = activity_bookings.activity_id JOIN guests ON guests.id = activity_bookings.guest_id"
}

func IsValidStatus(status string) bool {
	_, ok := validTransitions[status]

	return ok
}

func CanTransition(from, to string) bool {
	return slices.Contains(validTransitions[from], to)
}

func NewReference(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]

	return fmt.Sprintf("%s-%s-%s", referencePrefix, at.Format("20060102"), suffix)
}

// Transition moves the booking to status and stamps the matching timestamp.
func (b *ActivityBooking) Transition(status string, at time.Time) error {
	if !IsValidStatus(status) {
		return failure.BadRequestFromString("unknown activity booking status: " + status) // nolint:wrapcheck
	}

	if !CanTransition(b.Status, status) {
		return failure.InvalidState(fmt.Sprintf("cannot change activity booking status from %s to %s", b.Status, status)) // nolint:wrapcheck
	}

	b.Status = status

	switch status {
	case StatusConfirmed:
		b.ConfirmedAt = &at
	case StatusCompleted:
		b.CompletedAt = &at
	case StatusCancelled:
		b.CancelledAt = &at
	}

	return nil
}

func (b ActivityBooking) TransitionFields() map[string]any {
	fields := map[string]any{FieldStatus: b.Status}

	switch b.Status {
	case StatusConfirmed:
		fields[FieldConfirmedAt] = b.ConfirmedAt
	case StatusCompleted:
		fields[FieldCompletedAt] = b.CompletedAt
	case StatusCancelled:
		fields[FieldCancelledAt] = b.CancelledAt
	}

	return fields
}

// Reserved sums the participants of the occupying bookings given.
func Reserved(bookings []ActivityBooking) int {
	total := 0

	for _, booking := range bookings {
		if slices.Contains(OccupyingStatuses, booking.Status) {
			total += booking.Participants
		}
	}

	return total
}
