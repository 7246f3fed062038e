package notifier

import (
	"context"
	"fmt"
	"log/slog"

	kafka "github.com/segmentio/kafka-go"

	"github.com/gameswap/gameswap/internal/event"
)

// consumerGroup is the shared group id; instances split the topic's
// partitions between them, so per-partition order is preserved while the
// fleet scales horizontally.
const consumerGroup = "email-service-group"

// Consumer reads notification envelopes from the email topic and dispatches
// them to the delivery handlers. Every message is committed after handling,
// whether it succeeded or not: malformed or failing messages are logged and
// skipped, never redelivered. Email is a best-effort side channel; operators
// watch the skip and error logs instead.
type Consumer struct {
	reader *kafka.Reader
	mailer Mailer
	logger *slog.Logger
}

// NewConsumer creates a Consumer connected to the given Kafka brokers.
func NewConsumer(brokers []string, topic string, mailer Mailer, logger *slog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        consumerGroup,
		MinBytes:       1,
		MaxBytes:       1 << 20, // 1 MiB
		CommitInterval: 0,       // explicit commits only
		StartOffset:    kafka.FirstOffset,
	})
	return &Consumer{reader: reader, mailer: mailer, logger: logger}
}

// Run blocks, consuming messages until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("consuming notifications", slog.String("group", consumerGroup))

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				// Clean shutdown.
				return nil
			}
			return fmt.Errorf("fetch: %w", err)
		}

		c.handle(ctx, m)

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Warn("commit failed, message may be redelivered", slog.Any("error", err))
		}
	}
}

// Close releases the Kafka reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

// handle processes one message. It never returns an error: every failure
// mode ends in a log line and the message being treated as consumed.
func (c *Consumer) handle(ctx context.Context, m kafka.Message) {
	if len(m.Value) == 0 {
		c.logger.Warn("received message with empty value")
		return
	}

	env, err := event.Decode(m.Value)
	if err != nil {
		c.logger.Error("failed to parse message as JSON",
			slog.Any("error", err),
			slog.String("raw", string(m.Value)),
		)
		return
	}

	if env.EventType == "" || !env.HasData() {
		c.logger.Error("message missing eventType or data", slog.String("raw", string(m.Value)))
		return
	}

	if err := c.dispatch(ctx, env); err != nil {
		c.logger.Error("error handling notification",
			slog.String("type", env.EventType),
			slog.Any("error", err),
		)
	}
}

// dispatch routes an envelope to the handler for its event type. Unknown
// types are logged and skipped.
func (c *Consumer) dispatch(ctx context.Context, env event.Envelope) error {
	switch env.EventType {
	case event.TypePasswordChanged:
		return c.handlePasswordChanged(ctx, env.Data)
	case event.TypeOfferCreated, event.TypeOfferAccepted, event.TypeOfferRejected:
		return c.handleOffer(ctx, env.EventType, env.Data)
	default:
		c.logger.Warn("unknown event type", slog.String("type", env.EventType))
		return nil
	}
}
