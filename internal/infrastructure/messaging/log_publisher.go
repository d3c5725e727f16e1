package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/bibhealth/diabetes-risk/pkg/events"
)

// LogPublisher implements port.EventPublisher by logging each event. It is
// used when no Kafka brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a new logging event publisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs every event at info level with its payload.
func (p *LogPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	for _, evt := range evts {
		payload, err := json.Marshal(evt)
		if err != nil {
			return err
		}
		p.logger.InfoContext(ctx, "domain event",
			slog.String("event_id", evt.EventID().String()),
			slog.String("event_type", evt.EventType()),
			slog.String("aggregate_id", evt.AggregateID().String()),
			slog.String("payload", string(payload)),
		)
	}
	return nil
}
