package model_test

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"hostel/internal/domains/activitybooking/model"
	"hostel/shared/failure"

	"github.com/stretchr/testify/assert"
)

func TestActivityBooking_Transition(t *testing.T) {
	at := time.Date(2030, 1, 5, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		from     string
		to       string
		wantCode int
	}{
		{from: model.StatusPending, to: model.StatusConfirmed},
		{from: model.StatusPending, to: model.StatusCancelled},
		{from: model.StatusConfirmed, to: model.StatusCompleted},
		{from: model.StatusConfirmed, to: model.StatusCancelled},
		{from: model.StatusPending, to: model.StatusCompleted, wantCode: http.StatusUnprocessableEntity},
		{from: model.StatusCompleted, to: model.StatusCancelled, wantCode: http.StatusUnprocessableEntity},
		{from: model.StatusCancelled, to: model.StatusConfirmed, wantCode: http.StatusUnprocessableEntity},
		{from: model.StatusConfirmed, to: model.StatusConfirmed, wantCode: http.StatusUnprocessableEntity},
		{from: model.StatusPending, to: "checked_in", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			booking := model.ActivityBooking{Status: tt.from}

			err := booking.Transition(tt.to, at)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
				assert.Equal(t, tt.from, booking.Status)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.to, booking.Status)

			fields := booking.TransitionFields()
			assert.Equal(t, tt.to, fields[model.FieldStatus])
			assert.Len(t, fields, 2)
		})
	}
}

func TestNewReference(t *testing.T) {
	ref := model.NewReference(time.Date(2030, 1, 5, 0, 0, 0, 0, time.UTC))

	assert.Regexp(t, regexp.MustCompile(`^AB-20300105-[0-9A-F]{6}$`), ref)
}

func TestReserved_CountsOccupyingBookingsOnly(t *testing.T) {
	bookings := []model.ActivityBooking{
		{Participants: 3, Status: model.StatusPending},
		{Participants: 2, Status: model.StatusConfirmed},
		{Participants: 4, Status: model.StatusCancelled},
		{Participants: 5, Status: model.StatusCompleted},
	}

	assert.Equal(t, 5, model.Reserved(bookings))
	assert.Zero(t, model.Reserved(nil))
}
