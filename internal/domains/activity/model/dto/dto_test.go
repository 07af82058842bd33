package dto_test

import (
	"net/http"
	"testing"

	"hostel/internal/domains/activity/model"
	"hostel/internal/domains/activity/model/dto"
	"hostel/shared/failure"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeDays(t *testing.T) {
	assert.Equal(t, []string{"monday", "saturday", "sunday"}, dto.NormalizeDays([]string{"Sunday, saturday", "MONDAY", "sunday", "funday"}))
	assert.Empty(t, dto.NormalizeDays(nil))
}

func TestCreateActivityRequest_ToModel(t *testing.T) {
	req := dto.CreateActivityRequest{
		Name:            "Sunset kayak",
		Price:           decimal.RequireFromString("35.499"),
		MinParticipants: 2,
		MaxParticipants: 8,
		DifficultyLevel: model.DifficultyModerate,
		AvailableDays:   []string{"Saturday"},
		StartTime:       "09:00",
		EndTime:         "17:00",
	}

	activity := req.ToModel("admin-1", "")

	assert.NotEmpty(t, activity.ID)
	assert.True(t, activity.Active)
	assert.True(t, decimal.RequireFromString("35.50").Equal(activity.Price))
	assert.Equal(t, []string{"saturday"}, []string(activity.AvailableDays))
	assert.Equal(t, "admin-1", activity.CreatedBy)
}

func TestCheckHours(t *testing.T) {
	assert.NoError(t, dto.CheckHours("09:00", "17:00"))
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(dto.CheckHours("17:00", "09:00")))
	assert.Error(t, dto.CheckHours("09:00", "09:00"))
}

func TestUpdateActivityRequest_Merge(t *testing.T) {
	current := model.Activity{MinParticipants: 2, MaxParticipants: 8, StartTime: "09:00", EndTime: "17:00"}

	one := 1
	ten := 10
	nine := 9

	req := dto.UpdateActivityRequest{MinParticipants: &ten}
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(req.Merge(current)))

	req = dto.UpdateActivityRequest{MinParticipants: &one, MaxParticipants: &nine}
	assert.NoError(t, req.Merge(current))

	req = dto.UpdateActivityRequest{EndTime: "08:00"}
	assert.Error(t, req.Merge(current))

	assert.True(t, (&dto.UpdateActivityRequest{}).IsEmpty())
}
