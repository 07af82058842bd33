package dto

import (
	"hostel/internal/domains/availability/model"
	bookingModel "hostel/internal/domains/booking/model"
	roomModel "hostel/internal/domains/room/model"
	roomDto "hostel/internal/domains/room/model/dto"
	"hostel/shared/constant"
	"hostel/shared/timezone"
)

type AvailabilityRequest struct {
	CheckInDate    string `json:"check_in_date"    validate:"required,date"`
	CheckOutDate   string `json:"check_out_date"   validate:"required,date"`
	NumberOfGuests int    `json:"number_of_guests" validate:"required,min=1"`
}

func (a *AvailabilityRequest) ToQuery() model.Query {
	checkIn, _ := timezone.Parse(constant.DateOnlyFormat, a.CheckInDate)
	checkOut, _ := timezone.Parse(constant.DateOnlyFormat, a.CheckOutDate)

	return model.Query{CheckIn: checkIn, CheckOut: checkOut, Guests: a.NumberOfGuests}
}

type AvailableRoomResponse struct {
	roomDto.RoomResponse
	RemainingCapacity int `json:"remaining_capacity"`
}

type AvailableRoomsResponse struct {
	CheckInDate    string                  `json:"check_in_date"`
	CheckOutDate   string                  `json:"check_out_date"`
	NumberOfGuests int                     `json:"number_of_guests"`
	Nights         int                     `json:"nights"`
	Rooms          []AvailableRoomResponse `json:"rooms"`
}

func (r *AvailableRoomsResponse) FromResult(q model.Query, rooms []roomModel.Room, bookings []bookingModel.Booking) {
	r.CheckInDate = timezone.Format(q.CheckIn, constant.DateOnlyFormat)
	r.CheckOutDate = timezone.Format(q.CheckOut, constant.DateOnlyFormat)
	r.NumberOfGuests = q.Guests
	r.Nights = bookingModel.Nights(q.CheckIn, q.CheckOut)

	r.Rooms = make([]AvailableRoomResponse, len(rooms))
	for i, room := range rooms {
		r.Rooms[i].RoomResponse.FromModel(room)
		r.Rooms[i].RemainingCapacity = model.Remaining(room, bookings, q.CheckIn, q.CheckOut)
	}
}
