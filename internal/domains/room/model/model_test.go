package model_test

import (
	"net/http"
	"testing"

	"hostel/internal/domains/room/model"
	"hostel/shared/failure"

	"github.com/stretchr/testify/assert"
)

func TestRoom_AdjustOccupancy(t *testing.T) {
	tests := []struct {
		name         string
		room         model.Room
		delta        int
		wantErr      bool
		wantOccupied int
		wantStatus   string
	}{
		{
			name:         "confirm two guests into empty room",
			room:         model.Room{Capacity: 4, Occupied: 0, Status: model.StatusAvailable},
			delta:        2,
			wantOccupied: 2,
			wantStatus:   model.StatusAvailable,
		},
		{
			name:         "filling the room marks it full",
			room:         model.Room{Capacity: 4, Occupied: 2, Status: model.StatusAvailable},
			delta:        2,
			wantOccupied: 4,
			wantStatus:   model.StatusFull,
		},
		{
			name:         "releasing guests from a full room",
			room:         model.Room{Capacity: 4, Occupied: 4, Status: model.StatusFull},
			delta:        -2,
			wantOccupied: 2,
			wantStatus:   model.StatusAvailable,
		},
		{
			name:         "maintenance is never overridden",
			room:         model.Room{Capacity: 4, Occupied: 3, Status: model.StatusMaintenance},
			delta:        1,
			wantOccupied: 4,
			wantStatus:   model.StatusMaintenance,
		},
		{
			name:         "exceeding capacity is a conflict",
			room:         model.Room{Capacity: 4, Occupied: 3, Status: model.StatusAvailable},
			delta:        2,
			wantErr:      true,
			wantOccupied: 3,
			wantStatus:   model.StatusAvailable,
		},
		{
			name:         "negative occupancy is a conflict",
			room:         model.Room{Capacity: 4, Occupied: 1, Status: model.StatusAvailable},
			delta:        -2,
			wantErr:      true,
			wantOccupied: 1,
			wantStatus:   model.StatusAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := tt.room

			err := room.AdjustOccupancy(tt.delta)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusConflict, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.wantOccupied, room.Occupied)
			assert.Equal(t, tt.wantStatus, room.Status)
		})
	}
}

func TestRoom_CanAccommodateMore(t *testing.T) {
	assert.True(t, model.Room{Capacity: 4, Occupied: 3}.CanAccommodateMore())
	assert.False(t, model.Room{Capacity: 4, Occupied: 4}.CanAccommodateMore())
}

func TestRoom_OccupancyStaysInBounds(t *testing.T) {
	room := model.Room{Capacity: 3, Status: model.StatusAvailable}

	for _, delta := range []int{2, 2, -1, 5, -4, 1, -2, -1, 3} {
		_ = room.AdjustOccupancy(delta)

		assert.GreaterOrEqual(t, room.Occupied, 0)
		assert.LessOrEqual(t, room.Occupied, room.Capacity)
		assert.Equal(t, room.Occupied == room.Capacity, room.Status == model.StatusFull)
	}
}
