package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"hostel/config"
	"hostel/infras/otel/mocks"
	pgMocks "hostel/infras/postgres/mocks"
	s3Mocks "hostel/infras/s3/mocks"
	bookingMocks "hostel/internal/domains/booking/mocks"
	roomMocks "hostel/internal/domains/room/mocks"
	"hostel/internal/domains/room/model"
	"hostel/internal/domains/room/model/dto"
	"hostel/internal/domains/room/service"
	cacheMocks "hostel/shared/cache/mocks"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type mocksSet struct {
	repo     *roomMocks.MockRoom
	bookings *bookingMocks.MockBooking
	s3       *s3Mocks.MockS3
	cache    *cacheMocks.MockRedisCache
}

func setup(t *testing.T) (mocksSet, service.Room) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := mocksSet{
		repo:     roomMocks.NewMockRoom(ctrl),
		bookings: bookingMocks.NewMockBooking(ctrl),
		s3:       s3Mocks.NewMockS3(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.External.S3.BucketName = "hostel"

	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return m, service.New(m.repo, m.bookings, pgMocks.NewTransactor(), cfg, m.cache, mocks.NewOtel(), m.s3)
}

func dorm() model.Room {
	return model.Room{
		ID:         "room-1",
		RoomNumber: "101",
		Name:       "Sunrise Dorm",
		Capacity:   4,
		Occupied:   2,
		Price:      decimal.RequireFromString("25.00"),
		Status:     model.StatusAvailable,
		Image:      "https://cdn.example.com/hostel/room/old.png",
	}
}

func intPtr(v int) *int {
	return &v
}

func TestRoomService_Create(t *testing.T) {
	req := dto.CreateRoomRequest{
		RoomNumber: "101",
		Name:       "Sunrise Dorm",
		Type:       model.TypeDormitoryMixed,
		Capacity:   4,
		Price:      decimal.RequireFromString("25"),
	}

	t.Run("success without image", func(t *testing.T) {
		m, svc := setup(t)

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, room model.Room) error {
				assert.Equal(t, 0, room.Occupied)
				assert.Equal(t, model.StatusAvailable, room.Status)

				return nil
			})

		err := svc.Create(context.Background(), req)
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("duplicate room number removes the uploaded image", func(t *testing.T) {
		m, svc := setup(t)

		withImage := req
		withImage.Image = &multipart.FileHeader{Filename: "dorm.png"}

		m.s3.EXPECT().UploadFile(gomock.Any(), "hostel", model.EntityName, gomock.Any(), gomock.Any(), gomock.Any()).Return("https://cdn.example.com/hostel/room/new.png", nil)
		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
		m.s3.EXPECT().DeleteFile(gomock.Any(), "hostel", model.EntityName, gomock.Any()).Return(nil)

		err := svc.Create(context.Background(), withImage)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("upload failure", func(t *testing.T) {
		m, svc := setup(t)

		withImage := req
		withImage.Image = &multipart.FileHeader{Filename: "dorm.png"}

		m.s3.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("s3 down"))

		assert.Error(t, svc.Create(context.Background(), withImage))
	})
}

func TestRoomService_Update(t *testing.T) {
	tests := []struct {
		name       string
		req        dto.UpdateRoomRequest
		room       model.Room
		wantStatus string
		wantCode   int
	}{
		{
			name:       "maintenance is forced",
			req:        dto.UpdateRoomRequest{Status: model.StatusMaintenance},
			room:       dorm(),
			wantStatus: model.StatusMaintenance,
		},
		{
			name: "available recomputes from occupancy",
			req:  dto.UpdateRoomRequest{Status: model.StatusAvailable},
			room: func() model.Room {
				r := dorm()
				r.Occupied = 4
				r.Status = model.StatusMaintenance

				return r
			}(),
			wantStatus: model.StatusFull,
		},
		{
			name:       "lowering capacity to occupancy fills the room",
			req:        dto.UpdateRoomRequest{Capacity: intPtr(2)},
			room:       dorm(),
			wantStatus: model.StatusFull,
		},
		{
			name: "capacity change keeps maintenance",
			req:  dto.UpdateRoomRequest{Capacity: intPtr(6)},
			room: func() model.Room {
				r := dorm()
				r.Status = model.StatusMaintenance

				return r
			}(),
			wantStatus: model.StatusMaintenance,
		},
		{
			name:     "capacity below occupancy",
			req:      dto.UpdateRoomRequest{Capacity: intPtr(1)},
			room:     dorm(),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "not found",
			req:      dto.UpdateRoomRequest{Name: "Renamed"},
			room:     model.Room{},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "empty request",
			req:      dto.UpdateRoomRequest{},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, svc := setup(t)

			m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.room, nil).MaxTimes(1)

			if tt.wantCode == 0 {
				m.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, tt.wantStatus, fields[model.FieldStatus])
						assert.NotContains(t, fields, model.FieldOccupied)

						return nil
					})
			}

			err := svc.Update(context.Background(), tt.req, "room-1")
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode == 0 {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestRoomService_Update_ReplacesImage(t *testing.T) {
	m, svc := setup(t)

	m.s3.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("https://cdn.example.com/hostel/room/new.png", nil)
	m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(dorm(), nil)
	m.repo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, "https://cdn.example.com/hostel/room/new.png", fields[model.FieldImage])

			return nil
		})
	m.s3.EXPECT().GetObjectNameFromURL("hostel", "https://cdn.example.com/hostel/room/old.png").Return("old.png")
	m.s3.EXPECT().DeleteFile(gomock.Any(), "hostel", model.EntityName, "old.png").Return(nil)

	err := svc.Update(context.Background(), dto.UpdateRoomRequest{Image: &multipart.FileHeader{Filename: "new.png"}}, "room-1")
	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
}

func TestRoomService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(m mocksSet)
		wantCode  int
	}{
		{
			name: "not found",
			setupMock: func(m mocksSet) {
				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "occupying bookings block deletion",
			setupMock: func(m mocksSet) {
				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(dorm(), nil)
				m.bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "booking history blocks deletion",
			setupMock: func(m mocksSet) {
				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(dorm(), nil)
				m.bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				m.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeFkViolation})
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "success removes the image",
			setupMock: func(m mocksSet) {
				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(dorm(), nil)
				m.bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				m.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
				m.s3.EXPECT().GetObjectNameFromURL(gomock.Any(), gomock.Any()).Return("old.png")
				m.s3.EXPECT().DeleteFile(gomock.Any(), gomock.Any(), gomock.Any(), "old.png").Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, svc := setup(t)
			tt.setupMock(m)

			err := svc.Delete(context.Background(), "room-1")
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode == 0 {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestRoomService_GetPublic(t *testing.T) {
	m, svc := setup(t)

	m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
	m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	m.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Room, error) {
			assert.Equal(t, "rooms.price", params.SortBy)

			f := filter.Filters[0].(gDto.Filter)
			assert.Equal(t, gDto.FilterOperatorNotEq, f.Operator)
			assert.Equal(t, model.StatusMaintenance, f.Value)

			return []model.Room{dorm()}, nil
		})

	res, err := svc.GetPublic(context.Background(), gDto.QueryParams{Page: 1, Limit: 10})
	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.True(t, res.Rooms[0].CanAccommodateMore)
}
