package model_test

import (
	"net/http"
	"testing"
	"time"

	"hostel/internal/domains/activity/model"
	"hostel/shared/failure"
	"hostel/shared/timezone"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func kayak() model.Activity {
	return model.Activity{
		ID:                  "act-1",
		Name:                "Sunset kayak",
		Price:               decimal.RequireFromString("35.50"),
		MinParticipants:     2,
		MaxParticipants:     8,
		AvailableDays:       pq.StringArray{"saturday", "sunday"},
		StartTime:           "09:00",
		EndTime:             "17:00",
		Active:              true,
		AdvanceBookingHours: 24,
	}
}

func TestActivity_CheckSlot(t *testing.T) {
	// Wednesday 2030-01-02 10:00.
	now := time.Date(2030, 1, 2, 10, 0, 0, 0, timezone.GetLocation())
	saturday := time.Date(2030, 1, 5, 0, 0, 0, 0, timezone.GetLocation())

	tests := []struct {
		name       string
		mutate     func(a *model.Activity)
		slot       model.Slot
		wantFields []string
	}{
		{
			name: "valid",
			slot: model.Slot{Date: saturday, Time: "09:00", Participants: 2},
		},
		{
			name:       "too few participants",
			slot:       model.Slot{Date: saturday, Time: "10:00", Participants: 1},
			wantFields: []string{"participants"},
		},
		{
			name:       "too many participants",
			slot:       model.Slot{Date: saturday, Time: "10:00", Participants: 9},
			wantFields: []string{"participants"},
		},
		{
			name:       "weekday not offered",
			slot:       model.Slot{Date: saturday.AddDate(0, 0, 2), Time: "10:00", Participants: 4},
			wantFields: []string{"booking_date"},
		},
		{
			name:       "end time is exclusive",
			slot:       model.Slot{Date: saturday, Time: "17:00", Participants: 4},
			wantFields: []string{"booking_time"},
		},
		{
			name:       "malformed time",
			slot:       model.Slot{Date: saturday, Time: "9am", Participants: 4},
			wantFields: []string{"booking_time"},
		},
		{
			name:       "inside the advance window",
			mutate:     func(a *model.Activity) { a.AvailableDays = nil },
			slot:       model.Slot{Date: now, Time: "16:00", Participants: 4},
			wantFields: []string{"booking_date"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activity := kayak()
			if tt.mutate != nil {
				tt.mutate(&activity)
			}

			err := activity.CheckSlot(tt.slot, now)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			for _, field := range tt.wantFields {
				assert.Contains(t, failure.GetErrors(err), field)
			}
		})
	}
}

func TestActivity_OffersDay_EmptyMeansDaily(t *testing.T) {
	activity := kayak()
	activity.AvailableDays = nil

	assert.True(t, activity.OffersDay(time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)))
}

func TestActivity_Total(t *testing.T) {
	assert.True(t, decimal.RequireFromString("142.00").Equal(kayak().Total(4)))
}

func TestActivity_CheckCapacity(t *testing.T) {
	tests := []struct {
		name         string
		reserved     int
		participants int
		wantCode     int
	}{
		{name: "empty session", reserved: 0, participants: 8},
		{name: "exact fit", reserved: 6, participants: 2},
		{name: "one over", reserved: 7, participants: 2, wantCode: http.StatusConflict},
		{name: "already overbooked", reserved: 9, participants: 2, wantCode: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := kayak().CheckCapacity(tt.reserved, tt.participants)

			if tt.wantCode == 0 {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}
