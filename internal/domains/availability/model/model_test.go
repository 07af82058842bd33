package model_test

import (
	"math/rand"
	"net/http"
	"testing"
	"time"

	"hostel/internal/domains/availability/model"
	bookingModel "hostel/internal/domains/booking/model"
	roomModel "hostel/internal/domains/room/model"
	"hostel/shared/failure"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

func room(id, number string, capacity int, price int64) roomModel.Room {
	return roomModel.Room{
		ID:         id,
		RoomNumber: number,
		Capacity:   capacity,
		Price:      decimal.NewFromInt(price),
		Status:     roomModel.StatusAvailable,
	}
}

func booking(roomID string, in, out, guests int, status string) bookingModel.Booking {
	return bookingModel.Booking{
		RoomID:         roomID,
		CheckInDate:    day(in),
		CheckOutDate:   day(out),
		NumberOfGuests: guests,
		Status:         status,
	}
}

func TestQuery_Validate(t *testing.T) {
	today := day(1)

	tests := []struct {
		name      string
		query     model.Query
		wantField string
	}{
		{name: "valid", query: model.Query{CheckIn: day(1), CheckOut: day(3), Guests: 2}},
		{name: "no guests", query: model.Query{CheckIn: day(1), CheckOut: day(3)}, wantField: "number_of_guests"},
		{name: "reversed range", query: model.Query{CheckIn: day(3), CheckOut: day(3), Guests: 1}, wantField: "check_out_date"},
		{name: "in the past", query: model.Query{CheckIn: time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), CheckOut: day(2), Guests: 1}, wantField: "check_in_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate(today.Add(15 * time.Hour))

			if tt.wantField == "" {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			assert.Contains(t, failure.GetErrors(err), tt.wantField)
		})
	}
}

func TestEvaluate_Scenarios(t *testing.T) {
	dorm := room("room-1", "101", 4, 25)
	query := model.Query{CheckIn: day(1), CheckOut: day(3), Guests: 2}

	first := booking("room-1", 1, 3, 2, bookingModel.StatusPending)

	res := model.Evaluate([]roomModel.Room{dorm}, []bookingModel.Booking{first}, query)
	assert.Len(t, res, 1, "two pending guests leave room for two more")

	second := booking("room-1", 1, 3, 2, bookingModel.StatusConfirmed)
	dorm.Occupied = 4
	dorm.Status = dorm.DerivedStatus()
	assert.Equal(t, roomModel.StatusFull, dorm.Status)

	res = model.Evaluate([]roomModel.Room{dorm}, []bookingModel.Booking{first, second}, model.Query{CheckIn: day(2), CheckOut: day(4), Guests: 1})
	assert.Empty(t, res)
}

func TestEvaluate_HalfOpenRange(t *testing.T) {
	dorm := room("room-1", "101", 2, 25)
	existing := booking("room-1", 1, 3, 2, bookingModel.StatusCheckedIn)

	res := model.Evaluate([]roomModel.Room{dorm}, []bookingModel.Booking{existing}, model.Query{CheckIn: day(3), CheckOut: day(5), Guests: 2})
	assert.Len(t, res, 1, "check-out day is free for a new check-in")

	res = model.Evaluate([]roomModel.Room{dorm}, []bookingModel.Booking{existing}, model.Query{CheckIn: day(2), CheckOut: day(3), Guests: 1})
	assert.Empty(t, res)
}

func TestEvaluate_IgnoresReleasedBookings(t *testing.T) {
	dorm := room("room-1", "101", 2, 25)
	bookings := []bookingModel.Booking{
		booking("room-1", 1, 3, 2, bookingModel.StatusCancelled),
		booking("room-1", 1, 3, 2, bookingModel.StatusCheckedOut),
		booking("room-2", 1, 3, 2, bookingModel.StatusConfirmed),
	}

	res := model.Evaluate([]roomModel.Room{dorm}, bookings, model.Query{CheckIn: day(1), CheckOut: day(3), Guests: 2})
	assert.Len(t, res, 1)
}

func TestEvaluate_MaintenanceExcluded(t *testing.T) {
	closed := room("room-1", "101", 10, 25)
	closed.Status = roomModel.StatusMaintenance

	res := model.Evaluate([]roomModel.Room{closed}, nil, model.Query{CheckIn: day(1), CheckOut: day(2), Guests: 1})
	assert.Empty(t, res)
	assert.Equal(t, 0, model.Remaining(closed, nil, day(1), day(2)))
}

func TestEvaluate_Ordering(t *testing.T) {
	rooms := []roomModel.Room{
		room("c", "301", 4, 40),
		room("b", "202", 4, 25),
		room("a", "201", 4, 25),
	}

	res := model.Evaluate(rooms, nil, model.Query{CheckIn: day(1), CheckOut: day(2), Guests: 1})
	assert.Equal(t, []string{"201", "202", "301"}, []string{res[0].RoomNumber, res[1].RoomNumber, res[2].RoomNumber})
}

func TestEvaluate_NeverOverbooks(t *testing.T) {
	rng := rand.New(rand.NewSource(42)) //nolint:gosec
	statuses := []string{
		bookingModel.StatusPending,
		bookingModel.StatusConfirmed,
		bookingModel.StatusCheckedIn,
		bookingModel.StatusCheckedOut,
		bookingModel.StatusCancelled,
	}

	for iteration := 0; iteration < 200; iteration++ {
		rooms := []roomModel.Room{
			room("r1", "1", 1+rng.Intn(6), int64(rng.Intn(50))),
			room("r2", "2", 1+rng.Intn(6), int64(rng.Intn(50))),
		}

		bookings := make([]bookingModel.Booking, 0, 8)
		for range 8 {
			in := 1 + rng.Intn(20)
			bookings = append(bookings, booking(rooms[rng.Intn(2)].ID, in, in+1+rng.Intn(5), 1+rng.Intn(3), statuses[rng.Intn(len(statuses))]))
		}

		in := 1 + rng.Intn(20)
		query := model.Query{CheckIn: day(in), CheckOut: day(in + 1 + rng.Intn(5)), Guests: 1 + rng.Intn(4)}

		for _, candidate := range model.Evaluate(rooms, bookings, query) {
			booked := 0

			for _, b := range bookings {
				if b.RoomID == candidate.ID && bookingModel.IsOccupying(b.Status) &&
					b.CheckInDate.Before(query.CheckOut) && query.CheckIn.Before(b.CheckOutDate) {
					booked += b.NumberOfGuests
				}
			}

			assert.LessOrEqual(t, booked+query.Guests, candidate.Capacity)
		}
	}
}
