package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bibhealth/diabetes-risk/pkg/events"
	"github.com/bibhealth/diabetes-risk/pkg/kafka"
)

// Producer is the subset of kafka.Producer the publisher needs.
type Producer interface {
	Publish(ctx context.Context, topic string, messages ...kafka.Message) error
}

// KafkaPublisher implements port.EventPublisher using Kafka. Events are keyed
// by aggregate id so all events of one prediction land on one partition.
type KafkaPublisher struct {
	producer Producer
	topic    string
	logger   *slog.Logger
}

// NewKafkaPublisher creates a new Kafka event publisher.
func NewKafkaPublisher(producer Producer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish sends domain events to Kafka as one batch.
func (p *KafkaPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(evts))
	for _, evt := range evts {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", evt.EventType(), err)
		}

		headers := events.Headers(evt)
		headers["content-type"] = "application/json"

		messages = append(messages, kafka.Message{
			Key:     []byte(evt.AggregateID().String()),
			Value:   payload,
			Headers: headers,
		})
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish %d events: %w", len(messages), err)
	}

	p.logger.DebugContext(ctx, "published events",
		slog.String("topic", p.topic),
		slog.Int("event_count", len(messages)),
	)
	return nil
}
