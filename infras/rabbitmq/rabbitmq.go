package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hostel/config"
	"hostel/shared/timezone"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	initialBackoff   = time.Second
	maxBackoff       = 30 * time.Second
	reconnectBackoff = 2 * time.Second
)

var errDeliveriesClosed = errors.New("deliveries channel closed")

type Handler func(ctx context.Context, key string, body []byte) error

type Client interface {
	Publish(ctx context.Context, queue, key string, body []byte) error
	Consume(ctx context.Context, queue string, handler Handler)
}

type rabbitClientImpl struct {
	url      string
	prefetch int
}

func New(config *config.Config) Client {
	log.Info().Msg("RabbitMQ client initialized")

	return &rabbitClientImpl{
		url:      config.Broker.RabbitMQ.URL,
		prefetch: config.Broker.RabbitMQ.Prefetch,
	}
}

// Publish dials per message and declares the durable queue before sending.
func (r *rabbitClientImpl) Publish(ctx context.Context, queue, key string, body []byte) error {
	conn, err := amqp.Dial(r.url)
	if err != nil {
		log.Error().Err(err).Msg("Failed to dial RabbitMQ.")

		return fmt.Errorf("failed to dial rabbitmq: %w", err)
	}
	defer conn.Close()

	channel, err := conn.Channel()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open RabbitMQ channel.")

		return fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}
	defer channel.Close()

	if _, err = channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("Failed to declare RabbitMQ queue.")

		return fmt.Errorf("failed to declare rabbitmq queue: %w", err)
	}

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    key,
		Timestamp:    timezone.Now(),
		Body:         body,
	}

	if err = channel.PublishWithContext(ctx, "", queue, false, false, publishing); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("Failed to publish RabbitMQ message.")

		return fmt.Errorf("failed to publish rabbitmq message: %w", err)
	}

	log.Info().Str("queue", queue).Str("key", key).Msg("Sent message successfully.")

	return nil
}

// Consume blocks until ctx is done, reconnecting with exponential backoff.
func (r *rabbitClientImpl) Consume(ctx context.Context, queue string, handler Handler) {
	backoff := initialBackoff

	for ctx.Err() == nil {
		conn, err := amqp.Dial(r.url)
		if err != nil {
			log.Error().Err(err).Dur("backoff", backoff).Msg("Failed to dial RabbitMQ, retrying.")

			if !sleep(ctx, backoff) {
				return
			}

			backoff = min(backoff*2, maxBackoff)

			continue
		}

		backoff = initialBackoff

		err = r.consumeLoop(ctx, conn, queue, handler)
		_ = conn.Close()

		if ctx.Err() != nil {
			log.Info().Msg("Consumer context done.")

			return
		}

		log.Error().Err(err).Msg("RabbitMQ consume loop ended, reconnecting.")

		if !sleep(ctx, reconnectBackoff) {
			return
		}
	}
}

func (r *rabbitClientImpl) consumeLoop(ctx context.Context, conn *amqp.Connection, queue string, handler Handler) error {
	channel, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer channel.Close()

	if err = channel.Qos(r.prefetch, 0, false); err != nil {
		log.Error().Err(err).Msg("Failed to set RabbitMQ QoS.")
	}

	if _, err = channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	deliveries, err := channel.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for delivery := range deliveries {
		log.Info().Str("queue", queue).Str("key", delivery.MessageId).Msg("Received message from RabbitMQ.")

		if err := handler(ctx, delivery.MessageId, delivery.Body); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("Failed to handle RabbitMQ message.")

			// rejected without requeue so a poison message cannot loop
			_ = delivery.Nack(false, false)

			continue
		}

		_ = delivery.Ack(false)
	}

	return errDeliveriesClosed
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
