package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"hostel/config"
	"hostel/infras/otel/mocks"
	pgMocks "hostel/infras/postgres/mocks"
	activityMocks "hostel/internal/domains/activity/mocks"
	activityModel "hostel/internal/domains/activity/model"
	abMocks "hostel/internal/domains/activitybooking/mocks"
	"hostel/internal/domains/activitybooking/model"
	"hostel/internal/domains/activitybooking/model/dto"
	"hostel/internal/domains/activitybooking/service"
	guestMocks "hostel/internal/domains/guest/mocks"
	guestModel "hostel/internal/domains/guest/model"
	guestDto "hostel/internal/domains/guest/model/dto"
	cacheMocks "hostel/shared/cache/mocks"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"
	"hostel/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo       *abMocks.MockActivityBooking
	activities *activityMocks.MockActivity
	guests     *guestMocks.MockGuestService
	transactor pgMocks.Transactor
	svc        service.ActivityBooking
}

func setup(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := fixture{
		repo:       abMocks.NewMockActivityBooking(ctrl),
		activities: activityMocks.NewMockActivity(ctrl),
		guests:     guestMocks.NewMockGuestService(ctrl),
		transactor: pgMocks.NewTransactor(),
	}

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.activities, f.guests, f.transactor, cfg, mockCache, mocks.NewOtel())

	return f
}

func kayak() activityModel.Activity {
	return activityModel.Activity{
		ID:                  "act-1",
		Name:                "Sunset kayak",
		Price:               decimal.RequireFromString("35.50"),
		MinParticipants:     2,
		MaxParticipants:     8,
		StartTime:           "09:00",
		EndTime:             "17:00",
		Active:              true,
		AdvanceBookingHours: 24,
	}
}

func request(participants int) dto.CreateActivityBookingRequest {
	return dto.CreateActivityBookingRequest{
		Guest:        guestDto.GuestInfo{FirstName: "Ana", LastName: "Lopez", Email: "ana@example.com"},
		ActivityID:   "act-1",
		BookingDate:  timezone.Format(timezone.Now().AddDate(0, 0, 3), constant.DateOnlyFormat),
		BookingTime:  "10:00",
		Participants: participants,
	}
}

func TestActivityBookingService_Create(t *testing.T) {
	t.Run("success totals participants by price", func(t *testing.T) {
		f := setup(t)

		f.activities.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(kayak(), nil)
		f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.guests.EXPECT().FindOrCreateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(guestModel.Guest{ID: "guest-1", FirstName: "Ana", LastName: "Lopez"}, nil)
		f.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.ActivityBooking) error {
				assert.Equal(t, model.StatusPending, booking.Status)
				assert.Equal(t, "guest-1", booking.GuestID)
				assert.Equal(t, constant.ContextGuest, booking.CreatedBy)

				return nil
			})

		res, err := f.svc.Create(context.Background(), request(4))
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.True(t, decimal.RequireFromString("142.00").Equal(res.TotalAmount))
		assert.Equal(t, "Ana Lopez", res.GuestName)
		assert.Equal(t, "Sunset kayak", res.ActivityName)
		assert.Equal(t, 1, f.transactor.Commits())
	})

	t.Run("unknown activity", func(t *testing.T) {
		f := setup(t)

		f.activities.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activityModel.Activity{}, nil)

		_, err := f.svc.Create(context.Background(), request(4))
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("inactive activity", func(t *testing.T) {
		f := setup(t)

		inactive := kayak()
		inactive.Active = false
		f.activities.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(inactive, nil)

		_, err := f.svc.Create(context.Background(), request(4))
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("full session is a conflict", func(t *testing.T) {
		f := setup(t)

		f.activities.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(kayak(), nil)
		f.repo.EXPECT().
			GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.ActivityBooking, error) {
				values := map[string]any{}
				for _, item := range filter.Filters {
					condition := item.(gDto.Filter)
					values[condition.Field] = condition.Value
				}

				assert.Equal(t, "act-1", values[model.FieldActivityID])
				assert.Equal(t, request(4).BookingDate, values[model.FieldBookingDate])
				assert.Equal(t, "10:00", values[model.FieldBookingTime])
				assert.Equal(t, model.OccupyingStatuses, values[model.FieldStatus])

				return []model.ActivityBooking{
					{ID: "ab-1", Participants: 5, Status: model.StatusConfirmed},
					{ID: "ab-2", Participants: 2, Status: model.StatusPending},
				}, nil
			})

		_, err := f.svc.Create(context.Background(), request(2))
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.Equal(t, 1, f.transactor.Rollbacks())
	})

	t.Run("remaining places can be taken exactly", func(t *testing.T) {
		f := setup(t)

		f.activities.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(kayak(), nil)
		f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.ActivityBooking{{ID: "ab-1", Participants: 6, Status: model.StatusPending}}, nil)
		f.guests.EXPECT().FindOrCreateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(guestModel.Guest{ID: "guest-1"}, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.Create(context.Background(), request(2))
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("participants out of range", func(t *testing.T) {
		f := setup(t)

		f.activities.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(kayak(), nil)

		_, err := f.svc.Create(context.Background(), request(12))
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		assert.Contains(t, failure.GetErrors(err), "participants")
		assert.Equal(t, 1, f.transactor.Rollbacks())
	})
}

func TestActivityBookingService_Transition(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		wantCode int
	}{
		{name: "confirm", from: model.StatusPending, to: model.StatusConfirmed},
		{name: "complete", from: model.StatusConfirmed, to: model.StatusCompleted},
		{name: "cancel confirmed", from: model.StatusConfirmed, to: model.StatusCancelled},
		{name: "complete pending", from: model.StatusPending, to: model.StatusCompleted, wantCode: http.StatusUnprocessableEntity},
		{name: "reopen cancelled", from: model.StatusCancelled, to: model.StatusPending, wantCode: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)

			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.ActivityBooking{ID: "ab-1", Status: tt.from}, nil)

			if tt.wantCode == 0 {
				f.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, tt.to, fields[model.FieldStatus])

						return nil
					})
			}

			res, err := f.svc.Transition(context.Background(), "ab-1", tt.to)
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.to, res.Status)
		})
	}
}

func TestActivityBookingService_Update(t *testing.T) {
	note := "vegetarian lunch"

	t.Run("empty request", func(t *testing.T) {
		f := setup(t)

		_, err := f.svc.Update(context.Background(), dto.UpdateActivityBookingRequest{}, "ab-1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("note and status are written in one statement", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.ActivityBooking{ID: "ab-1", Status: model.StatusPending}, nil)
		f.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, model.StatusConfirmed, fields[model.FieldStatus])
				assert.Equal(t, &note, fields[model.FieldSpecialRequests])

				return nil
			})

		res, err := f.svc.Update(context.Background(), dto.UpdateActivityBookingRequest{Status: model.StatusConfirmed, SpecialRequests: &note}, "ab-1")
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusConfirmed, res.Status)
		assert.Equal(t, note, res.SpecialRequests)
	})

	t.Run("rejected transition writes nothing", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.ActivityBooking{ID: "ab-1", Status: model.StatusPending}, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := f.svc.Update(context.Background(), dto.UpdateActivityBookingRequest{Status: model.StatusCompleted, SpecialRequests: &note}, "ab-1")

		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
		assert.Equal(t, 1, f.transactor.Rollbacks())
	})

	t.Run("note only keeps the status", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.ActivityBooking{ID: "ab-1", Status: model.StatusConfirmed}, nil)
		f.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.NotContains(t, fields, model.FieldStatus)
				assert.Equal(t, &note, fields[model.FieldSpecialRequests])

				return nil
			})

		res, err := f.svc.Update(context.Background(), dto.UpdateActivityBookingRequest{SpecialRequests: &note}, "ab-1")
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusConfirmed, res.Status)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.ActivityBooking{}, nil)

		_, err := f.svc.Update(context.Background(), dto.UpdateActivityBookingRequest{SpecialRequests: &note}, "ab-1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestActivityBookingService_Delete(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(f.svc.Delete(context.Background(), "ab-1")))
	})

	t.Run("success", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		err := f.svc.Delete(context.Background(), "ab-1")
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})
}
