package broker_test

import (
	"context"
	"testing"

	"hostel/config"
	"hostel/infras/broker"
	"hostel/infras/otel/mocks"

	"github.com/stretchr/testify/assert"
)

func TestBroker_DisabledDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.Broker.Driver = "unknown"
	cfg.Broker.Topic = "booking.status_changed"

	b := broker.New(cfg, mocks.NewOtel())

	assert.NoError(t, b.Publish(context.Background(), "BK-1", map[string]string{"status": "confirmed"}))

	err := b.Consume(context.Background(), func(_ context.Context, _ string, _ []byte) error {
		return nil
	})
	assert.ErrorIs(t, err, broker.ErrNoDriver)
}
