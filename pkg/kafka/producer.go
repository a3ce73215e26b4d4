package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/config"
	"github.com/segmentio/kafka-go"
)

// Event is the unit of data published to Kafka. Key is used for partition
// hashing and Value is JSON-serialised.
type Event struct {
	Key   string
	Value any
}

// Producer publishes JSON-encoded events to a Kafka topic.
type Producer struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewProducer creates a Producer for the given topic.
func NewProducer(cfg config.KafkaConfig, topic string) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  1,
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &Producer{
		writer: w,
		logger: slog.Default().With("component", "kafka-producer", "topic", topic),
	}
}

// Publish serialises a single event and writes it to Kafka synchronously.
func (p *Producer) Publish(ctx context.Context, event Event) error {
	msg, err := encode(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish message",
			"key", event.Key,
			"error", err,
		)
		return fmt.Errorf("publishing to kafka: %w", err)
	}
	p.logger.Debug("message published",
		"key", event.Key,
		"value_size", len(msg.Value),
	)
	return nil
}

// Close flushes pending writes and closes the underlying Kafka writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

func encode(event Event) (kafka.Message, error) {
	value, err := json.Marshal(event.Value)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshaling event value: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.Key),
		Value: value,
	}, nil
}
