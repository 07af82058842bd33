package model

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/shared/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TableName  = "room_bookings"
	EntityName = "booking"

	FieldID               = "id"
	FieldSequence         = "sequence"
	FieldBookingReference = "booking_reference"
	FieldGuestID          = "guest_id"
	FieldRoomID           = "room_id"
	FieldCheckInDate      = "check_in_date"
	FieldCheckOutDate     = "check_out_date"
	FieldNumberOfGuests   = "number_of_guests"
	FieldTotalAmount      = "total_amount"
	FieldStatus           = "status"
	FieldSpecialRequests  = "special_requests"
	FieldConfirmedAt      = "confirmed_at"
	FieldCheckedInAt      = "checked_in_at"
	FieldCheckedOutAt     = "checked_out_at"
	FieldCancelledAt      = "cancelled_at"
)

const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusCheckedIn  = "checked_in"
	StatusCheckedOut = "checked_out"
	StatusCancelled  = "cancelled"
)

const referencePrefix = "BK"

var validTransitions = map[string][]string{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn:  {StatusCheckedOut},
	StatusCheckedOut: {},
	StatusCancelled:  {},
}

// OccupyingStatuses consume capacity for availability searches.
var OccupyingStatuses = []string{StatusPending, StatusConfirmed, StatusCheckedIn}

type Booking struct {
	ID               string          `db:"id"`
	Sequence         int64           `db:"sequence"          readonly:"true"`
	BookingReference string          `db:"booking_reference"`
	GuestID          string          `db:"guest_id"`
	RoomID           string          `db:"room_id"`
	CheckInDate      time.Time       `db:"check_in_date"`
	CheckOutDate     time.Time       `db:"check_out_date"`
	NumberOfGuests   int             `db:"number_of_guests"`
	SubtotalAmount   decimal.Decimal `db:"subtotal_amount"`
	DiscountAmount   decimal.Decimal `db:"discount_amount"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	OfferID          *string         `db:"offer_id"`
	Status           string          `db:"status"`
	SpecialRequests  string          `db:"special_requests"`
	ConfirmedAt      *time.Time      `db:"confirmed_at"`
	CheckedInAt      *time.Time      `db:"checked_in_at"`
	CheckedOutAt     *time.Time      `db:"checked_out_at"`
	CancelledAt      *time.Time      `db:"cancelled_at"`
	model.Metadata

	GuestFirstName string `db:"guest_first_name" table:"guests" column:"first_name"`
	GuestLastName  string `db:"guest_last_name"  table:"guests" column:"last_name"`
	GuestEmail     string `db:"guest_email"      table:"guests" column:"email"`
	RoomNumber     string `db:"room_number"      table:"rooms"  column:"room_number"`
	RoomName       string `db:"room_name"        table:"rooms"  column:"name"`
}

func (Booking) GetJoinQuery() string {
	return "JOIN guests ON guests.id = room_bookings.guest_id JOIN rooms ON rooms.id = room_bookings.room_id"
}

func IsValidStatus(status string) bool {
	_, ok := validTransitions[status]

	return ok
}

func CanTransition(from, to string) bool {
	return slices.Contains(validTransitions[from], to)
}

func IsTerminal(status string) bool {
	next, ok := validTransitions[status]

	return ok && len(next) == 0
}

func IsOccupying(status string) bool {
	return slices.Contains(OccupyingStatuses, status)
}

// HoldsOccupancy reports whether the status is counted in room.occupied.
func HoldsOccupancy(status string) bool {
	return status == StatusConfirmed || status == StatusCheckedIn
}

// OccupancyDelta is the change to room.occupied caused by moving from one status to another.
func OccupancyDelta(from, to string, guests int) int {
	switch {
	case !HoldsOccupancy(from) && HoldsOccupancy(to):
		return guests
	case HoldsOccupancy(from) && !HoldsOccupancy(to):
		return -guests
	default:
		return 0
	}
}

// Nights counts started 24h periods between check-in and check-out, at least one.
func Nights(checkIn, checkOut time.Time) int {
	hours := checkOut.Sub(checkIn).Hours()
	nights := int(math.Ceil(hours / constant.HoursPerDay))

	return max(nights, 1)
}

// Overlaps uses half-open ranges, so a check-out day may be another booking's check-in day.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && bIn.Before(aOut)
}

func NewReference(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]

	return fmt.Sprintf("%s-%s-%s", referencePrefix, at.Format("20060102"), suffix)
}

func (b Booking) Nights() int {
	return Nights(b.CheckInDate, b.CheckOutDate)
}

func (b Booking) OverlapsRange(checkIn, checkOut time.Time) bool {
	return Overlaps(b.CheckInDate, b.CheckOutDate, checkIn, checkOut)
}

// Transition moves the booking to status and stamps the matching timestamp.
func (b *Booking) Transition(status string, at time.Time) error {
	if !IsValidStatus(status) {
		return failure.BadRequestFromString("unknown booking status: " + status) // nolint:wrapcheck
	}

	if !CanTransition(b.Status, status) {
		return failure.InvalidState(fmt.Sprintf("cannot change booking status from %s to %s", b.Status, status)) // nolint:wrapcheck
	}

	b.Status = status

	switch status {
	case StatusConfirmed:
		b.ConfirmedAt = &at
	case StatusCheckedIn:
		b.CheckedInAt = &at
	case StatusCheckedOut:
		b.CheckedOutAt = &at
	case StatusCancelled:
		b.CancelledAt = &at
	}

	return nil
}

// TransitionFields is the column set written for the current status.
func (b Booking) TransitionFields() map[string]any {
	fields := map[string]any{FieldStatus: b.Status}

	switch b.Status {
	case StatusConfirmed:
		fields[FieldConfirmedAt] = b.ConfirmedAt
	case StatusCheckedIn:
		fields[FieldCheckedInAt] = b.CheckedInAt
	case StatusCheckedOut:
		fields[FieldCheckedOutAt] = b.CheckedOutAt
	case StatusCancelled:
		fields[FieldCancelledAt] = b.CancelledAt
	}

	return fields
}
