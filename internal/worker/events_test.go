package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	brokerMocks "hostel/infras/broker/mocks"
	"hostel/internal/domains/booking/model"
	"hostel/internal/worker"
	cacheMocks "hostel/shared/cache/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func eventBody(t *testing.T) []byte {
	t.Helper()

	body, err := json.Marshal(model.StatusChangedEvent{
		Type:             model.EventStatusChanged,
		BookingID:        "b-1",
		BookingReference: "BK-20260101-0001",
		Sequence:         42,
		From:             model.StatusPending,
		To:               model.StatusConfirmed,
		NumberOfGuests:   2,
		OccurredAt:       time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	return body
}

func TestBookingEvents_Handle(t *testing.T) {
	tests := []struct {
		name    string
		body    func(t *testing.T) []byte
		setup   func(c *cacheMocks.MockRedisCache)
		wantErr bool
	}{
		{
			name: "new event is recorded",
			body: eventBody,
			setup: func(c *cacheMocks.MockRedisCache) {
				c.EXPECT().SaveIfAbsent(gomock.Any(), gomock.Any(), model.StatusConfirmed, 24*60*60).Return(true, nil)
			},
		},
		{
			name: "redelivered event is skipped",
			body: eventBody,
			setup: func(c *cacheMocks.MockRedisCache) {
				c.EXPECT().SaveIfAbsent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
			},
		},
		{
			name:  "malformed body is dropped",
			body:  func(*testing.T) []byte { return []byte("{not json") },
			setup: func(*cacheMocks.MockRedisCache) {},
		},
		{
			name: "cache failure is retried",
			body: eventBody,
			setup: func(c *cacheMocks.MockRedisCache) {
				c.EXPECT().SaveIfAbsent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			redisCache := cacheMocks.NewMockRedisCache(ctrl)
			tt.setup(redisCache)

			consumer := worker.NewBookingEvents(brokerMocks.NewMockBroker(ctrl), redisCache)

			err := consumer.Handle(context.Background(), "BK-20260101-0001", tt.body(t))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingEvents_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	broker := brokerMocks.NewMockBroker(ctrl)

	broker.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(errors.New("no broker driver configured"))

	err := worker.NewBookingEvents(broker, cacheMocks.NewMockRedisCache(ctrl)).Run(context.Background())
	assert.ErrorContains(t, err, "failed to consume booking events")
}
