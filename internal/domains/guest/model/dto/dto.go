package dto

import (
	"strings"
	"time"

	"hostel/internal/domains/guest/model"
	"hostel/shared"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	gModel "hostel/shared/model"
	"hostel/shared/timezone"

	"github.com/google/uuid"
)

// GuestInfo is the guest block embedded in public booking requests.
type GuestInfo struct {
	FirstName             string `json:"first_name"              validate:"required,max=100"`
	LastName              string `json:"last_name"               validate:"required,max=100"`
	Email                 string `json:"email"                   validate:"required,email,max=150"`
	Phone                 string `json:"phone"                   validate:"omitempty,max=30"`
	Nationality           string `json:"nationality"             validate:"omitempty,max=100"`
	IDType                string `json:"id_type"                 validate:"omitempty,oneof=passport national_id driver_license"`
	IDNumber              string `json:"id_number"               validate:"omitempty,max=50"`
	DateOfBirth           string `json:"date_of_birth"           validate:"omitempty,date"`
	EmergencyContactName  string `json:"emergency_contact_name"  validate:"omitempty,max=100"`
	EmergencyContactPhone string `json:"emergency_contact_phone" validate:"omitempty,max=30"`
}

// NormalizedEmail is the lookup key for find-or-create.
func (g *GuestInfo) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(g.Email))
}

func (g *GuestInfo) ToModel(user string) model.Guest {
	var dateOfBirth *time.Time

	if g.DateOfBirth != constant.Empty {
		if parsed, err := timezone.Parse(constant.DateOnlyFormat, g.DateOfBirth); err == nil {
			dateOfBirth = &parsed
		}
	}

	return model.Guest{
		ID:                    uuid.NewString(),
		FirstName:             strings.TrimSpace(g.FirstName),
		LastName:              strings.TrimSpace(g.LastName),
		Email:                 g.NormalizedEmail(),
		Phone:                 g.Phone,
		Nationality:           g.Nationality,
		IDType:                g.IDType,
		IDNumber:              g.IDNumber,
		DateOfBirth:           dateOfBirth,
		EmergencyContactName:  g.EmergencyContactName,
		EmergencyContactPhone: g.EmergencyContactPhone,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateGuestRequest struct {
	FirstName             string     `db:"first_name"              json:"first_name"              validate:"omitempty,max=100"`
	LastName              string     `db:"last_name"               json:"last_name"               validate:"omitempty,max=100"`
	Phone                 string     `db:"phone"                   json:"phone"                   validate:"omitempty,max=30"`
	Nationality           string     `db:"nationality"             json:"nationality"             validate:"omitempty,max=100"`
	IDType                string     `db:"id_type"                 json:"id_type"                 validate:"omitempty,oneof=passport national_id driver_license"`
	IDNumber              string     `db:"id_number"               json:"id_number"               validate:"omitempty,max=50"`
	DateOfBirth           string     `json:"date_of_birth"         validate:"omitempty,date"`
	ParsedDateOfBirth     *time.Time `db:"date_of_birth"           json:"-"`
	EmergencyContactName  string     `db:"emergency_contact_name"  json:"emergency_contact_name"  validate:"omitempty,max=100"`
	EmergencyContactPhone string     `db:"emergency_contact_phone" json:"emergency_contact_phone" validate:"omitempty,max=30"`
}

type GuestResponse struct {
	ID                    string `json:"id"`
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	FullName              string `json:"full_name"`
	Email                 string `json:"email"`
	Phone                 string `json:"phone"`
	Nationality           string `json:"nationality"`
	IDType                string `json:"id_type"`
	IDNumber              string `json:"id_number"`
	DateOfBirth           string `json:"date_of_birth,omitempty"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`
	gDto.Metadata
}

func (r *GuestResponse) FromModel(model model.Guest) {
	r.ID = model.ID
	r.FirstName = model.FirstName
	r.LastName = model.LastName
	r.FullName = model.FullName()
	r.Email = model.Email
	r.Phone = model.Phone
	r.Nationality = model.Nationality
	r.IDType = model.IDType
	r.IDNumber = model.IDNumber
	r.EmergencyContactName = model.EmergencyContactName
	r.EmergencyContactPhone = model.EmergencyContactPhone
	r.Metadata.FromModel(model.Metadata)

	if model.DateOfBirth != nil {
		r.DateOfBirth = timezone.Format(*model.DateOfBirth, constant.DateOnlyFormat)
	}
}

type GetGuestsResponse struct {
	Guests    []GuestResponse `json:"guests"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetGuestsResponse) FromModels(models []model.Guest, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Guests = make([]GuestResponse, len(models))
	for i, mod := range models {
		r.Guests[i].FromModel(mod)
	}
}
