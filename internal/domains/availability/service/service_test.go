package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"hostel/infras/otel/mocks"
	"hostel/internal/domains/availability/model"
	"hostel/internal/domains/availability/service"
	bookingMocks "hostel/internal/domains/booking/mocks"
	bookingModel "hostel/internal/domains/booking/model"
	roomMocks "hostel/internal/domains/room/mocks"
	roomModel "hostel/internal/domains/room/model"
	"hostel/shared/failure"
	"hostel/shared/timezone"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestAvailabilityService_FindAvailableRooms(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRooms := roomMocks.NewMockRoom(ctrl)
	mockBookings := bookingMocks.NewMockBooking(ctrl)

	svc := service.New(mockRooms, mockBookings, mocks.NewOtel())

	checkIn := timezone.Now().AddDate(0, 0, 7).Truncate(24 * time.Hour)
	checkOut := checkIn.AddDate(0, 0, 2)

	dorm := roomModel.Room{
		ID:         "room-1",
		RoomNumber: "101",
		Capacity:   4,
		Price:      decimal.NewFromInt(25),
		Status:     roomModel.StatusAvailable,
	}
	pending := bookingModel.Booking{
		RoomID:         "room-1",
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		NumberOfGuests: 2,
		Status:         bookingModel.StatusPending,
	}

	tests := []struct {
		name      string
		query     model.Query
		setupMock func()
		wantCode  int
		wantRooms int
	}{
		{
			name:  "room with space for two more",
			query: model.Query{CheckIn: checkIn, CheckOut: checkOut, Guests: 2},
			setupMock: func() {
				mockRooms.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]roomModel.Room{dorm}, nil)
				mockBookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]bookingModel.Booking{pending}, nil)
			},
			wantRooms: 1,
		},
		{
			name:  "not enough space",
			query: model.Query{CheckIn: checkIn, CheckOut: checkOut, Guests: 3},
			setupMock: func() {
				mockRooms.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]roomModel.Room{dorm}, nil)
				mockBookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]bookingModel.Booking{pending}, nil)
			},
			wantRooms: 0,
		},
		{
			name:      "invalid range",
			query:     model.Query{CheckIn: checkOut, CheckOut: checkIn, Guests: 1},
			setupMock: func() {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:  "room repository error",
			query: model.Query{CheckIn: checkIn, CheckOut: checkOut, Guests: 1},
			setupMock: func() {
				mockRooms.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.FindAvailableRooms(context.Background(), tt.query)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Len(t, res.Rooms, tt.wantRooms)
			assert.Equal(t, 2, res.Nights)

			if tt.wantRooms > 0 {
				assert.Equal(t, 2, res.Rooms[0].RemainingCapacity)
				assert.True(t, res.Rooms[0].CanAccommodateMore)
			}
		})
	}
}

func TestAvailabilityService_TracesRepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRooms := roomMocks.NewMockRoom(ctrl)
	recorder := mocks.NewOtel()

	svc := service.New(mockRooms, bookingMocks.NewMockBooking(ctrl), recorder)

	checkIn := timezone.Today().AddDate(0, 0, 3)

	mockRooms.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("database error"))

	_, err := svc.FindAvailableRooms(context.Background(), model.Query{CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 1), Guests: 1})

	assert.Error(t, err)
	assert.Contains(t, recorder.SpanNames(), "service.FindAvailableRooms")
	assert.Len(t, recorder.Errors(), 1)
}
