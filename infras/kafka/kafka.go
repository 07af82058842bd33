package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hostel/config"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	fetchRetryBackoff = time.Second
	writeTimeout      = 10 * time.Second
)

// Message is keyed so every event for one booking lands on the same partition, in order.
type Message struct {
	Key   string
	Value any
}

// Encode renders m as a kafka message with a JSON value.
func (m Message) Encode(topic string) (kafkaGo.Message, error) {
	value, err := json.Marshal(m.Value)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	return kafkaGo.Message{Topic: topic, Key: []byte(m.Key), Value: value}, nil
}

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) error
	Consume(ctx context.Context, consumerGroup, topic string, handler func(ctx context.Context, message kafkaGo.Message) error)
}

type kafkaClientImpl struct {
	brokers []string
	group   string
	dialer  *kafkaGo.Dialer
	writer  *kafkaGo.Writer
}

func New(config *config.Config) Client {
	kafkaCfg := config.Broker.Kafka

	dialer := &kafkaGo.Dialer{DualStack: true, Timeout: writeTimeout}
	transport := &kafkaGo.Transport{}

	if kafkaCfg.SASL.Username != "" {
		mechanism := plain.Mechanism{Username: kafkaCfg.SASL.Username, Password: kafkaCfg.SASL.Password}
		dialer.SASLMechanism = mechanism
		transport.SASL = mechanism
	}

	log.Info().Strs("brokers", kafkaCfg.Brokers).Msg("Kafka client initialized")

	return &kafkaClientImpl{
		brokers: kafkaCfg.Brokers,
		group:   kafkaCfg.ConsumerGroup,
		dialer:  dialer,
		writer: &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(kafkaCfg.Brokers...),
			Balancer:               &kafkaGo.Hash{},
			RequiredAcks:           kafkaGo.RequireAll,
			WriteTimeout:           writeTimeout,
			Transport:              transport,
			AllowAutoTopicCreation: true,
		},
	}
}

func (k *kafkaClientImpl) SendMessages(ctx context.Context, topic string, messages ...Message) error {
	encoded := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.Encode(topic)
		if err != nil {
			log.Error().Err(err).Str("topic", topic).Str("key", message.Key).Msg("Failed to encode Kafka message.")

			return err
		}

		encoded = append(encoded, msg)
	}

	if err := k.writer.WriteMessages(ctx, encoded...); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to send message to Kafka.")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Info().Str("topic", topic).Int("count", len(encoded)).Msg("Sent message successfully.")

	return nil
}

// Consume blocks until ctx is done. Offsets are committed after the handler runs, whatever it returns,
// so a message that always fails is logged and skipped rather than redelivered forever.
func (k *kafkaClientImpl) Consume(ctx context.Context, consumerGroup, topic string, handler func(ctx context.Context, message kafkaGo.Message) error) {
	if topic == "" {
		log.Error().Msg("Topic name cannot be empty when creating Kafka reader")

		return
	}

	group := k.group
	if consumerGroup != "" {
		group = consumerGroup
	}

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:     k.brokers,
		Topic:       topic,
		GroupID:     group,
		Dialer:      k.dialer,
		StartOffset: kafkaGo.FirstOffset,
	})

	defer func() {
		if err := reader.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Kafka reader.")
		}
	}()

	for {
		msg, err := reader.FetchMessage(ctx)

		switch {
		case ctx.Err() != nil:
			log.Info().Str("topic", topic).Msg("Consumer context done.")

			return
		case errors.Is(err, context.Canceled):
			return
		case err != nil:
			log.Error().Err(err).Str("topic", topic).Msg("Failed to read message from Kafka.")
			wait(ctx, fetchRetryBackoff)

			continue
		}

		if err := handler(ctx, msg); err != nil {
			log.Error().Err(err).Str("topic", topic).Str("key", string(msg.Key)).Int64("offset", msg.Offset).Msg("Failed to handle Kafka message.")
		}

		if err := reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("topic", topic).Int64("offset", msg.Offset).Msg("Failed to commit Kafka message.")
		}
	}
}

func wait(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
