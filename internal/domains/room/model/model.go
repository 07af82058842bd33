package model

import (
	"hostel/shared/failure"
	"hostel/shared/model"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID          = "id"
	FieldRoomNumber  = "room_number"
	FieldName        = "name"
	FieldType        = "type"
	FieldCapacity    = "capacity"
	FieldOccupied    = "occupied"
	FieldFloor       = "floor"
	FieldPrice       = "price"
	FieldStatus      = "status"
	FieldAmenities   = "amenities"
	FieldDescription = "description"
	FieldImage       = "image"
)

const (
	StatusAvailable   = "available"
	StatusOccupied    = "occupied"
	StatusFull        = "full"
	StatusMaintenance = "maintenance"
)

const (
	TypeDormitoryMixed  = "dormitory_mixed"
	TypeDormitoryFemale = "dormitory_female"
	TypeDormitoryMale   = "dormitory_male"
	TypePrivateSingle   = "private_single"
	TypePrivateDouble   = "private_double"
	TypePrivateTwin     = "private_twin"
	TypeFamily          = "family"
	TypeDeluxe          = "deluxe"
)

type Room struct {
	ID          string          `db:"id"`
	RoomNumber  string          `db:"room_number"`
	Name        string          `db:"name"`
	Type        string          `db:"type"`
	Capacity    int             `db:"capacity"`
	Occupied    int             `db:"occupied"`
	Floor       int             `db:"floor"`
	Price       decimal.Decimal `db:"price"`
	Status      string          `db:"status"`
	Amenities   pq.StringArray  `db:"amenities"`
	Description string          `db:"description"`
	Image       string          `db:"image"`
	model.Metadata
}

func (r Room) CanAccommodateMore() bool {
	return r.Occupied < r.Capacity
}

func (r Room) InMaintenance() bool {
	return r.Status == StatusMaintenance
}

// AdjustOccupancy applies delta to Occupied and recomputes Status.
// The room is left untouched when the result would leave [0, Capacity].
func (r *Room) AdjustOccupancy(delta int) error {
	next := r.Occupied + delta

	if next > r.Capacity {
		return failure.Conflict("room capacity exceeded") //nolint:wrapcheck
	}

	if next < 0 {
		return failure.Conflict("room occupancy cannot be negative") //nolint:wrapcheck
	}

	r.Occupied = next
	r.Status = r.DerivedStatus()

	return nil
}

// DerivedStatus is full at capacity and available otherwise. Maintenance is kept.
func (r Room) DerivedStatus() string {
	if r.InMaintenance() {
		return StatusMaintenance
	}

	if r.Occupied >= r.Capacity {
		return StatusFull
	}

	return StatusAvailable
}
