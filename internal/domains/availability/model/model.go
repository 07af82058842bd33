package model

import (
	"fmt"
	"sort"
	"time"

	bookingModel "hostel/internal/domains/booking/model"
	roomModel "hostel/internal/domains/room/model"
	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/shared/timezone"
)

// Query is a date range search for a number of guests. CheckOut is exclusive.
type Query struct {
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
}

// Validate checks the range ordering, the guest count, and that the stay does not start before today.
func (q Query) Validate(today time.Time) error {
	fields := map[string][]string{}

	if q.Guests < 1 {
		fields["number_of_guests"] = []string{"number_of_guests must be at least 1"}
	}

	if !q.CheckIn.Before(q.CheckOut) {
		fields["check_out_date"] = []string{"check_out_date must be after check_in_date"}
	}

	if timezone.StartOfDay(q.CheckIn).Before(timezone.StartOfDay(today.In(q.CheckIn.Location()))) {
		fields["check_in_date"] = []string{fmt.Sprintf("check_in_date cannot be before %s", today.Format(constant.DateOnlyFormat))}
	}

	if len(fields) > 0 {
		return failure.Validation(constant.ResponseErrorValidation, fields) // nolint:wrapcheck
	}

	return nil
}

// Booked sums the guests of occupying bookings of room that intersect the query range.
func Booked(roomID string, bookings []bookingModel.Booking, checkIn, checkOut time.Time) int {
	total := 0

	for _, booking := range bookings {
		if booking.RoomID != roomID || !bookingModel.IsOccupying(booking.Status) {
			continue
		}

		if booking.OverlapsRange(checkIn, checkOut) {
			total += booking.NumberOfGuests
		}
	}

	return total
}

// Remaining is the capacity left in room for the range. Rooms in maintenance have none.
func Remaining(room roomModel.Room, bookings []bookingModel.Booking, checkIn, checkOut time.Time) int {
	if room.InMaintenance() {
		return 0
	}

	return room.Capacity - Booked(room.ID, bookings, checkIn, checkOut)
}

// Evaluate returns the rooms that can take q.Guests more guests for the whole range,
// cheapest first and then by room number.
func Evaluate(rooms []roomModel.Room, bookings []bookingModel.Booking, q Query) []roomModel.Room {
	res := make([]roomModel.Room, 0, len(rooms))

	for _, room := range rooms {
		if room.InMaintenance() {
			continue
		}

		if Remaining(room, bookings, q.CheckIn, q.CheckOut) >= q.Guests {
			res = append(res, room)
		}
	}

	sort.SliceStable(res, func(i, j int) bool {
		if !res[i].Price.Equal(res[j].Price) {
			return res[i].Price.LessThan(res[j].Price)
		}

		return res[i].RoomNumber < res[j].RoomNumber
	})

	return res
}
