package dto

import (
	"mime/multipart"
	"strings"

	"hostel/internal/domains/room/model"
	"hostel/shared"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	gModel "hostel/shared/model"
	"hostel/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type CreateRoomRequest struct {
	RoomNumber  string                `json:"room_number" validate:"required,max=20"`
	Name        string                `json:"name"        validate:"required,max=100"`
	Type        string                `json:"type"        validate:"required,oneof=dormitory_mixed dormitory_female dormitory_male private_single private_double private_twin family deluxe"`
	Capacity    int                   `json:"capacity"    validate:"required,min=1"`
	Floor       int                   `json:"floor"       validate:"omitempty,min=0"`
	Price       decimal.Decimal       `json:"price"       validate:"decimal_gte=0"`
	Status      string                `json:"status"      validate:"omitempty,oneof=available maintenance"`
	Amenities   []string              `json:"amenities"   validate:"omitempty,dive,max=50"`
	Description string                `json:"description" validate:"omitempty"`
	Image       *multipart.FileHeader `json:"image"       validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile   multipart.File        `json:"-"`
}

func (c *CreateRoomRequest) ToModel(user string, imageURL string) model.Room {
	status := model.StatusAvailable
	if c.Status != constant.Empty {
		status = c.Status
	}

	return model.Room{
		ID:          uuid.NewString(),
		RoomNumber:  c.RoomNumber,
		Name:        c.Name,
		Type:        c.Type,
		Capacity:    c.Capacity,
		Occupied:    0,
		Floor:       c.Floor,
		Price:       c.Price.Round(2), //nolint:mnd
		Status:      status,
		Amenities:   pq.StringArray(normalizeAmenities(c.Amenities)),
		Description: c.Description,
		Image:       imageURL,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateRoomRequest never carries occupied; status is resolved by the service.
type UpdateRoomRequest struct {
	RoomNumber  string                `db:"room_number" json:"room_number" validate:"omitempty,max=20"`
	Name        string                `db:"name"        json:"name"        validate:"omitempty,max=100"`
	Type        string                `db:"type"        json:"type"        validate:"omitempty,oneof=dormitory_mixed dormitory_female dormitory_male private_single private_double private_twin family deluxe"`
	Capacity    *int                  `db:"capacity"    json:"capacity"    validate:"omitempty,min=1"`
	Floor       *int                  `db:"floor"       json:"floor"       validate:"omitempty,min=0"`
	Price       *decimal.Decimal      `db:"price"       json:"price"`
	Amenities   pq.StringArray        `db:"amenities"   json:"amenities"   validate:"omitempty,dive,max=50"`
	Description string                `db:"description" json:"description" validate:"omitempty"`
	Status      string                `json:"status"    validate:"omitempty,oneof=available maintenance"`
	Image       *multipart.FileHeader `json:"image"     validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile   multipart.File        `json:"-"`
}

func (u *UpdateRoomRequest) IsEmpty() bool {
	return u.RoomNumber == constant.Empty && u.Name == constant.Empty && u.Type == constant.Empty &&
		u.Capacity == nil && u.Floor == nil && u.Price == nil && u.Amenities == nil &&
		u.Description == constant.Empty && u.Status == constant.Empty && u.Image == nil
}

type RoomResponse struct {
	ID                 string          `json:"id"`
	RoomNumber         string          `json:"room_number"`
	Name               string          `json:"name"`
	Type               string          `json:"type"`
	Capacity           int             `json:"capacity"`
	Occupied           int             `json:"occupied"`
	Floor              int             `json:"floor"`
	Price              decimal.Decimal `json:"price"`
	Status             string          `json:"status"`
	Amenities          []string        `json:"amenities"`
	Description        string          `json:"description"`
	Image              string          `json:"image"`
	CanAccommodateMore bool            `json:"can_accommodate_more"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.RoomNumber = model.RoomNumber
	r.Name = model.Name
	r.Type = model.Type
	r.Capacity = model.Capacity
	r.Occupied = model.Occupied
	r.Floor = model.Floor
	r.Price = model.Price
	r.Status = model.Status
	r.Amenities = []string(model.Amenities)
	r.Description = model.Description
	r.Image = model.Image
	r.CanAccommodateMore = model.CanAccommodateMore()
	r.Metadata.FromModel(model.Metadata)

	if r.Amenities == nil {
		r.Amenities = []string{}
	}
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

// SplitAmenities accepts repeated form values and comma separated lists alike.
func SplitAmenities(values []string) []string {
	amenities := []string{}

	for _, value := range values {
		amenities = append(amenities, strings.Split(value, ",")...)
	}

	return normalizeAmenities(amenities)
}

func normalizeAmenities(values []string) []string {
	seen := map[string]bool{}
	amenities := []string{}

	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == constant.Empty || seen[value] {
			continue
		}

		seen[value] = true
		amenities = append(amenities, value)
	}

	return amenities
}
