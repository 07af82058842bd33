package broker

//go:generate go run go.uber.org/mock/mockgen -source=./broker.go -destination=./mocks/broker_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hostel/config"
	"hostel/infras/kafka"
	"hostel/infras/otel"
	"hostel/infras/rabbitmq"
	"hostel/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const (
	DriverKafka    = "kafka"
	DriverRabbitMQ = "rabbitmq"
	DriverNone     = "none"

	otelTopicAttribute = "broker.topic"
)

var ErrNoDriver = errors.New("no broker driver configured")

// Handler receives the message key and its raw JSON body.
type Handler func(ctx context.Context, key string, body []byte) error

type Broker interface {
	Publish(ctx context.Context, key string, value any) error
	Consume(ctx context.Context, handler Handler) error
}

type brokerImpl struct {
	driver string
	topic  string
	group  string
	kafka  kafka.Client
	rabbit rabbitmq.Client
	otel   otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) Broker {
	b := &brokerImpl{
		driver: cfg.Broker.Driver,
		topic:  cfg.Broker.Topic,
		group:  cfg.Broker.Kafka.ConsumerGroup,
		otel:   otl,
	}

	switch cfg.Broker.Driver {
	case DriverKafka:
		b.kafka = kafka.New(cfg)
	case DriverRabbitMQ:
		b.rabbit = rabbitmq.New(cfg)
	default:
		b.driver = DriverNone

		log.Warn().Str("driver", cfg.Broker.Driver).Msg("Broker disabled, lifecycle events will only be logged")
	}

	return b
}

func (b *brokerImpl) Publish(ctx context.Context, key string, value any) (err error) {
	ctx, scope := b.otel.NewScope(ctx, constant.OtelBrokerScopeName, constant.OtelBrokerScopeName+".Publish")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		otelTopicAttribute: b.topic,
		"broker.driver":    b.driver,
	})

	switch b.driver {
	case DriverKafka:
		return b.kafka.SendMessages(ctx, b.topic, kafka.Message{Key: key, Value: value}) //nolint:wrapcheck
	case DriverRabbitMQ:
		body, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}

		return b.rabbit.Publish(ctx, b.topic, key, body) //nolint:wrapcheck
	default:
		log.Info().Str("topic", b.topic).Str("key", key).Msg("Broker disabled, event dropped")

		return nil
	}
}

// Consume blocks until ctx is done.
func (b *brokerImpl) Consume(ctx context.Context, handler Handler) error {
	switch b.driver {
	case DriverKafka:
		b.kafka.Consume(ctx, b.group, b.topic, func(ctx context.Context, message kafkaGo.Message) error {
			return handler(ctx, string(message.Key), message.Value)
		})
	case DriverRabbitMQ:
		b.rabbit.Consume(ctx, b.topic, rabbitmq.Handler(handler))
	default:
		return ErrNoDriver
	}

	return nil
}
