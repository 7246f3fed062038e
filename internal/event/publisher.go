package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	kafka "github.com/segmentio/kafka-go"
)

// ErrPublish indicates the event could not be handed to the broker after all
// retries. By then the triggering state change has already committed, so
// callers surface this to the client rather than rolling anything back.
var ErrPublish = errors.New("event publish failed")

// Publisher delivers marketplace events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// kafkaWriter is the slice of kafka.Writer the publisher depends on.
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes envelopes to the notification topic. Messages are
// keyed by event type, so ordering holds only among events of the same type,
// not across one offer's lifecycle.
//
// The underlying writer dials lazily on first write and reconnects on its
// own; Publish callers never manage the connection.
type KafkaPublisher struct {
	writer    kafkaWriter
	logger    *slog.Logger
	closing   atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewKafkaPublisher builds a publisher for the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  8,
		WriteBackoffMin: 100 * time.Millisecond,
		WriteBackoffMax: 1 * time.Second,
		WriteTimeout: 10 * time.Second,
		Compression:  kafka.Gzip,
	}
	return &KafkaPublisher{writer: writer, logger: logger}
}

// Publish encodes payload into an envelope and appends it to the topic.
// Returns an error wrapping ErrPublish once the writer's attempts are
// exhausted, or when the publisher is already shutting down.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	if p.closing.Load() {
		return fmt.Errorf("%w: publisher is shutting down", ErrPublish)
	}

	value, err := Encode(eventType, payload)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(eventType),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("send %s: %w: %v", eventType, ErrPublish, err)
	}

	p.logger.Info("event published", slog.String("type", eventType))
	return nil
}

// Close stops accepting publishes, flushes in-flight sends and releases the
// connection. Safe to call more than once.
func (p *KafkaPublisher) Close() error {
	p.closeOnce.Do(func() {
		p.closing.Store(true)
		p.closeErr = p.writer.Close()
	})
	return p.closeErr
}

// LogPublisher is a stub that writes events to the logger. Used in dev mode
// when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher constructs a logging publisher stub.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish writes the event to the structured logger.
func (p *LogPublisher) Publish(_ context.Context, eventType string, payload any) error {
	if p == nil || p.logger == nil {
		return nil
	}
	p.logger.Info("event", slog.String("type", eventType), slog.Any("payload", payload))
	return nil
}
