package dto

import (
	"mime/multipart"
	"strings"

	"hostel/internal/domains/activity/model"
	"hostel/shared"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"
	gModel "hostel/shared/model"
	"hostel/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const weekdays = "monday tuesday wednesday thursday friday saturday sunday"

type CreateActivityRequest struct {
	Name                string                `json:"name"                  validate:"required,max=150"`
	Description         string                `json:"description"           validate:"omitempty"`
	Price               decimal.Decimal       `json:"price"                 validate:"decimal_gte=0"`
	DurationMinutes     int                   `json:"duration_minutes"      validate:"required,min=1"`
	MinParticipants     int                   `json:"min_participants"      validate:"required,min=1"`
	MaxParticipants     int                   `json:"max_participants"      validate:"required,gtefield=MinParticipants"`
	DifficultyLevel     string                `json:"difficulty_level"      validate:"required,oneof=easy moderate hard"`
	AvailableDays       []string              `json:"available_days"        validate:"omitempty,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime           string                `json:"start_time"            validate:"required,clock"`
	EndTime             string                `json:"end_time"              validate:"required,clock"`
	Active              *bool                 `json:"active"                validate:"omitempty"`
	AdvanceBookingHours int                   `json:"advance_booking_hours" validate:"omitempty,min=0"`
	Image               *multipart.FileHeader `json:"image"                 validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile           multipart.File        `json:"-"`
}

// CheckHours rejects an opening window that does not move forward.
func CheckHours(start, end string) error {
	if start >= end {
		return failure.Validation(constant.ResponseErrorValidation, map[string][]string{ // nolint:wrapcheck
			"end_time": {"end_time must be after start_time"},
		})
	}

	return nil
}

func (c *CreateActivityRequest) ToModel(user, imageURL string) model.Activity {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Activity{
		ID:                  uuid.NewString(),
		Name:                c.Name,
		Description:         c.Description,
		Price:               c.Price.Round(2), //nolint:mnd
		DurationMinutes:     c.DurationMinutes,
		MinParticipants:     c.MinParticipants,
		MaxParticipants:     c.MaxParticipants,
		DifficultyLevel:     c.DifficultyLevel,
		AvailableDays:       pq.StringArray(NormalizeDays(c.AvailableDays)),
		StartTime:           c.StartTime,
		EndTime:             c.EndTime,
		Active:              active,
		AdvanceBookingHours: c.AdvanceBookingHours,
		Image:               imageURL,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateActivityRequest struct {
	Name                string                `db:"name"                  json:"name"                  validate:"omitempty,max=150"`
	Description         string                `db:"description"           json:"description"           validate:"omitempty"`
	Price               *decimal.Decimal      `db:"price"                 json:"price"`
	DurationMinutes     *int                  `db:"duration_minutes"      json:"duration_minutes"      validate:"omitempty,min=1"`
	MinParticipants     *int                  `db:"min_participants"      json:"min_participants"      validate:"omitempty,min=1"`
	MaxParticipants     *int                  `db:"max_participants"      json:"max_participants"      validate:"omitempty,min=1"`
	DifficultyLevel     string                `db:"difficulty_level"      json:"difficulty_level"      validate:"omitempty,oneof=easy moderate hard"`
	AvailableDays       pq.StringArray        `db:"available_days"        json:"available_days"        validate:"omitempty,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime           string                `db:"start_time"            json:"start_time"            validate:"omitempty,clock"`
	EndTime             string                `db:"end_time"              json:"end_time"              validate:"omitempty,clock"`
	Active              *bool                 `db:"active"                json:"active"`
	AdvanceBookingHours *int                  `db:"advance_booking_hours" json:"advance_booking_hours" validate:"omitempty,min=0"`
	Image               *multipart.FileHeader `json:"image"               validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile           multipart.File        `json:"-"`
}

func (u *UpdateActivityRequest) IsEmpty() bool {
	return u.Name == constant.Empty && u.Description == constant.Empty && u.Price == nil &&
		u.DurationMinutes == nil && u.MinParticipants == nil && u.MaxParticipants == nil &&
		u.DifficultyLevel == constant.Empty && u.AvailableDays == nil && u.StartTime == constant.Empty &&
		u.EndTime == constant.Empty && u.Active == nil && u.AdvanceBookingHours == nil && u.Image == nil
}

// Merge checks the update against the stored activity so limits and hours stay consistent.
func (u *UpdateActivityRequest) Merge(current model.Activity) error {
	minimum, maximum := current.MinParticipants, current.MaxParticipants
	if u.MinParticipants != nil {
		minimum = *u.MinParticipants
	}

	if u.MaxParticipants != nil {
		maximum = *u.MaxParticipants
	}

	if minimum > maximum {
		return failure.Validation(constant.ResponseErrorValidation, map[string][]string{ // nolint:wrapcheck
			"max_participants": {"max_participants must not be lower than min_participants"},
		})
	}

	start, end := current.StartTime, current.EndTime
	if u.StartTime != constant.Empty {
		start = u.StartTime
	}

	if u.EndTime != constant.Empty {
		end = u.EndTime
	}

	if u.AvailableDays != nil {
		u.AvailableDays = pq.StringArray(NormalizeDays(u.AvailableDays))
	}

	return CheckHours(start, end)
}

type ActivityResponse struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Price               decimal.Decimal `json:"price"`
	DurationMinutes     int             `json:"duration_minutes"`
	MinParticipants     int             `json:"min_participants"`
	MaxParticipants     int             `json:"max_participants"`
	DifficultyLevel     string          `json:"difficulty_level"`
	AvailableDays       []string        `json:"available_days"`
	StartTime           string          `json:"start_time"`
	EndTime             string          `json:"end_time"`
	Active              bool            `json:"active"`
	AdvanceBookingHours int             `json:"advance_booking_hours"`
	Image               string          `json:"image"`
	gDto.Metadata
}

func (r *ActivityResponse) FromModel(model model.Activity) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Price = model.Price
	r.DurationMinutes = model.DurationMinutes
	r.MinParticipants = model.MinParticipants
	r.MaxParticipants = model.MaxParticipants
	r.DifficultyLevel = model.DifficultyLevel
	r.AvailableDays = []string(model.AvailableDays)
	r.StartTime = model.StartTime
	r.EndTime = model.EndTime
	r.Active = model.Active
	r.AdvanceBookingHours = model.AdvanceBookingHours
	r.Image = model.Image
	r.Metadata.FromModel(model.Metadata)

	if r.AvailableDays == nil {
		r.AvailableDays = []string{}
	}
}

type GetActivitiesResponse struct {
	Activities []ActivityResponse `json:"activities"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (r *GetActivitiesResponse) FromModels(models []model.Activity, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Activities = make([]ActivityResponse, len(models))
	for i, mod := range models {
		r.Activities[i].FromModel(mod)
	}
}

// NormalizeDays lowercases, de-duplicates and orders weekday names from monday.
func NormalizeDays(values []string) []string {
	seen := map[string]bool{}

	for _, value := range values {
		for _, day := range strings.Split(value, ",") {
			seen[strings.ToLower(strings.TrimSpace(day))] = true
		}
	}

	days := []string{}

	for _, day := range strings.Fields(weekdays) {
		if seen[day] {
			days = append(days, day)
		}
	}

	return days
}
