package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"hostel/config"
	"hostel/infras/otel/mocks"
	guestMocks "hostel/internal/domains/guest/mocks"
	"hostel/internal/domains/guest/model"
	"hostel/internal/domains/guest/model/dto"
	"hostel/internal/domains/guest/service"
	cacheMocks "hostel/shared/cache/mocks"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func setup(t *testing.T) (*guestMocks.MockGuest, *cacheMocks.MockRedisCache, service.Guest) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := guestMocks.NewMockGuest(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return mockRepo, mockCache, service.New(mockRepo, cfg, mockCache, mocks.NewOtel())
}

func TestGuestService_FindOrCreateTx(t *testing.T) {
	info := dto.GuestInfo{
		FirstName: " Ana ",
		LastName:  "Lopez",
		Email:     "  Ana.Lopez@Example.COM",
		Phone:     "+34 600 000 000",
	}

	t.Run("existing guest is reused as stored", func(t *testing.T) {
		mockRepo, _, svc := setup(t)

		stored := model.Guest{ID: "guest-1", FirstName: "Ana", LastName: "Lopez-Garcia", Email: "ana.lopez@example.com"}

		mockRepo.EXPECT().
			GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup, _ ...string) (model.Guest, error) {
				assert.Equal(t, "ana.lopez@example.com", filter.Filters[0].(gDto.Filter).Value)

				return stored, nil
			})

		guest, err := svc.FindOrCreateTx(context.Background(), nil, info)
		assert.NoError(t, err)
		assert.Equal(t, stored, guest)
	})

	t.Run("missing guest is created with a normalized email", func(t *testing.T) {
		mockRepo, _, svc := setup(t)

		mockRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Guest{}, nil)
		mockRepo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, guest model.Guest) error {
				assert.Equal(t, "ana.lopez@example.com", guest.Email)
				assert.Equal(t, "Ana", guest.FirstName)
				assert.Equal(t, constant.ContextGuest, guest.CreatedBy)

				return nil
			})

		guest, err := svc.FindOrCreateTx(context.Background(), nil, info)
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.NotEmpty(t, guest.ID)
	})

	t.Run("staff user is recorded as creator", func(t *testing.T) {
		mockRepo, _, svc := setup(t)
		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-1")

		mockRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Guest{}, nil)
		mockRepo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, guest model.Guest) error {
				assert.Equal(t, "staff-1", guest.CreatedBy)

				return nil
			})

		_, err := svc.FindOrCreateTx(ctx, nil, info)
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("guest inserted by a concurrent booking is reused", func(t *testing.T) {
		mockRepo, _, svc := setup(t)

		winner := model.Guest{ID: "guest-7", FirstName: "Ana", LastName: "Lopez", Email: "ana.lopez@example.com"}
		duplicate := fmt.Errorf("failed to insert data (guest): %w", &pq.Error{Code: constant.PqErrorCodeUniqueViolation})

		gomock.InOrder(
			mockRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Guest{}, nil),
			mockRepo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(duplicate),
			mockRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(winner, nil),
		)

		guest, err := svc.FindOrCreateTx(context.Background(), nil, info)
		assert.NoError(t, err)
		assert.Equal(t, winner, guest)
	})

	t.Run("duplicate email that cannot be re-read is a conflict", func(t *testing.T) {
		mockRepo, _, svc := setup(t)

		duplicate := &pq.Error{Code: constant.PqErrorCodeUniqueViolation}

		mockRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Guest{}, nil).Times(2)
		mockRepo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(duplicate)

		_, err := svc.FindOrCreateTx(context.Background(), nil, info)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("insert failure", func(t *testing.T) {
		mockRepo, _, svc := setup(t)

		mockRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Guest{}, nil)
		mockRepo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		_, err := svc.FindOrCreateTx(context.Background(), nil, info)
		assert.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})

	t.Run("lookup failure", func(t *testing.T) {
		mockRepo, _, svc := setup(t)

		mockRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Guest{}, errors.New("db down"))

		_, err := svc.FindOrCreateTx(context.Background(), nil, info)
		assert.Error(t, err)
	})
}

func TestGuestService_Get(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		_, mockCache, svc := setup(t)

		mockCache.EXPECT().Get(gomock.Any(), "guest:get:guest-1", gomock.Any()).Return(nil)

		_, err := svc.Get(context.Background(), "guest-1")
		assert.NoError(t, err)
	})

	t.Run("from repository", func(t *testing.T) {
		mockRepo, mockCache, svc := setup(t)

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Guest{ID: "guest-1", FirstName: "Ana", LastName: "Lopez"}, nil)

		res, err := svc.Get(context.Background(), "guest-1")
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, "Ana Lopez", res.FullName)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo, mockCache, svc := setup(t)

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Guest{}, nil)

		_, err := svc.Get(context.Background(), "missing")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestGuestService_GetAll(t *testing.T) {
	mockRepo, mockCache, svc := setup(t)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
	mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Guest{{ID: "a"}, {ID: "b"}}, nil)

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 2}, gDto.FilterGroup{})
	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.Len(t, res.Guests, 2)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
}

func TestGuestService_Update(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.UpdateGuestRequest
		setupMock func(repo *guestMocks.MockGuest)
		wantCode  int
	}{
		{
			name:     "empty request",
			req:      dto.UpdateGuestRequest{},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "not found",
			req:  dto.UpdateGuestRequest{Phone: "123"},
			setupMock: func(repo *guestMocks.MockGuest) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "invalid date of birth",
			req:  dto.UpdateGuestRequest{DateOfBirth: "1990-13-45"},
			setupMock: func(repo *guestMocks.MockGuest) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "success",
			req:  dto.UpdateGuestRequest{Phone: "123", DateOfBirth: "1990-05-17"},
			setupMock: func(repo *guestMocks.MockGuest) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, "123", fields[model.FieldPhone])
						assert.Contains(t, fields, model.FieldDateOfBirth)

						return nil
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo, _, svc := setup(t)
			if tt.setupMock != nil {
				tt.setupMock(mockRepo)
			}

			err := svc.Update(context.Background(), tt.req, "guest-1")
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode == 0 {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}
