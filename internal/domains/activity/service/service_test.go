package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"hostel/config"
	"hostel/infras/otel/mocks"
	s3Mocks "hostel/infras/s3/mocks"
	activityMocks "hostel/internal/domains/activity/mocks"
	"hostel/internal/domains/activity/model"
	"hostel/internal/domains/activity/model/dto"
	"hostel/internal/domains/activity/service"
	cacheMocks "hostel/shared/cache/mocks"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func setup(t *testing.T) (*activityMocks.MockActivity, *cacheMocks.MockRedisCache, *s3Mocks.MockS3, service.Activity) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := activityMocks.NewMockActivity(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockS3 := s3Mocks.NewMockS3(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return mockRepo, mockCache, mockS3, service.New(mockRepo, cfg, mockCache, mocks.NewOtel(), mockS3)
}

func kayak() model.Activity {
	return model.Activity{
		ID:              "act-1",
		Name:            "Sunset kayak",
		Price:           decimal.RequireFromString("35.50"),
		MinParticipants: 2,
		MaxParticipants: 8,
		StartTime:       "09:00",
		EndTime:         "17:00",
		Active:          true,
	}
}

func TestActivityService_Create(t *testing.T) {
	req := dto.CreateActivityRequest{
		Name:            "Sunset kayak",
		Price:           decimal.RequireFromString("35.50"),
		DurationMinutes: 120,
		MinParticipants: 2,
		MaxParticipants: 8,
		DifficultyLevel: model.DifficultyEasy,
		StartTime:       "09:00",
		EndTime:         "17:00",
	}

	t.Run("success", func(t *testing.T) {
		mockRepo, _, _, svc := setup(t)

		mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		err := svc.Create(context.Background(), req)
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("closing before opening", func(t *testing.T) {
		_, _, _, svc := setup(t)

		invalid := req
		invalid.EndTime = "08:00"

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(svc.Create(context.Background(), invalid)))
	})

	t.Run("repository failure", func(t *testing.T) {
		mockRepo, _, _, svc := setup(t)

		mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		assert.Error(t, svc.Create(context.Background(), req))
	})
}

func TestActivityService_Update(t *testing.T) {
	ten := 10
	inactive := false

	tests := []struct {
		name      string
		req       dto.UpdateActivityRequest
		setupMock func(repo *activityMocks.MockActivity)
		wantCode  int
	}{
		{
			name:     "empty request",
			wantCode: http.StatusBadRequest,
		},
		{
			name: "not found",
			req:  dto.UpdateActivityRequest{Name: "Kayak"},
			setupMock: func(repo *activityMocks.MockActivity) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Activity{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "min above stored max",
			req:  dto.UpdateActivityRequest{MinParticipants: &ten},
			setupMock: func(repo *activityMocks.MockActivity) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(kayak(), nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "deactivate",
			req:  dto.UpdateActivityRequest{Active: &inactive},
			setupMock: func(repo *activityMocks.MockActivity) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(kayak(), nil)
				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, false, fields[model.FieldActive])

						return nil
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo, _, _, svc := setup(t)
			if tt.setupMock != nil {
				tt.setupMock(mockRepo)
			}

			err := svc.Update(context.Background(), tt.req, "act-1")
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode == 0 {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestActivityService_Delete(t *testing.T) {
	t.Run("activity with bookings", func(t *testing.T) {
		mockRepo, _, _, svc := setup(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(kayak(), nil)
		mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeFkViolation})

		assert.Equal(t, http.StatusConflict, failure.GetCode(svc.Delete(context.Background(), "act-1")))
	})

	t.Run("success", func(t *testing.T) {
		mockRepo, _, _, svc := setup(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(kayak(), nil)
		mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		err := svc.Delete(context.Background(), "act-1")
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})
}

func TestActivityService_GetPublic(t *testing.T) {
	mockRepo, mockCache, _, svc := setup(t)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
	mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Activity, error) {
			assert.Equal(t, true, filter.Filters[0].(gDto.Filter).Value)

			return []model.Activity{kayak()}, nil
		})

	res, err := svc.GetPublic(context.Background(), gDto.QueryParams{Page: 1, Limit: 10})
	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.Len(t, res.Activities, 1)
	assert.Equal(t, []string{}, res.Activities[0].AvailableDays)
}
