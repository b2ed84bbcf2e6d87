package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/kyc-risk-service/pkg/events"
	"github.com/bibbank/kyc-risk-service/pkg/kafka"
)

const (
	HeaderEventID       = "event_id"
	HeaderEventType     = "event_type"
	HeaderAggregateType = "aggregate_type"
	HeaderOccurredAt    = "occurred_at"
)

// MessageWriter is the subset of *kafka.Producer the publisher needs.
type MessageWriter interface {
	Publish(ctx context.Context, topic string, messages ...kafka.Message) error
}

// EventPublisher implements the EventPublisher port on a Kafka topic. Events
// are keyed by aggregate id so each aggregate's events stay ordered.
type EventPublisher struct {
	writer MessageWriter
	topic  string
	logger *slog.Logger
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(writer MessageWriter, topic string, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{writer: writer, topic: topic, logger: logger}
}

// Publish sends domain events to Kafka in a single batch.
func (p *EventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}
	messages := make([]kafka.Message, 0, len(evts))
	for _, evt := range evts {
		messages = append(messages, kafka.Message{
			Key:   []byte(evt.AggregateID().String()),
			Value: evt.Payload(),
			Headers: map[string]string{
				HeaderEventID:       evt.EventID().String(),
				HeaderEventType:     evt.EventType(),
				HeaderAggregateType: evt.AggregateType(),
				HeaderOccurredAt:    evt.OccurredAt().Format(time.RFC3339Nano),
			},
		})
	}

	if err := p.writer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish %d events: %w", len(evts), err)
	}
	p.logger.Debug("published events",
		slog.String("topic", p.topic),
		slog.Int("count", len(evts)),
	)
	return nil
}

// LogPublisher logs events instead of sending them. It stands in for Kafka
// when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	for _, evt := range evts {
		p.logger.Info("event emitted",
			slog.String("event_type", evt.EventType()),
			slog.String("aggregate_id", evt.AggregateID().String()),
			slog.String("payload_size", fmt.Sprintf("%d bytes", len(evt.Payload()))),
		)
	}
	return nil
}
