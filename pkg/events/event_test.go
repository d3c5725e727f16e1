package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewBaseEvent(t *testing.T) {
	aggregateID := uuid.New()

	before := time.Now().UTC()
	event := NewBaseEvent("PredictionCompleted", aggregateID, "Prediction")
	after := time.Now().UTC()

	if event.EventID() == uuid.Nil {
		t.Error("expected non-nil event ID")
	}

	if event.EventType() != "PredictionCompleted" {
		t.Errorf("expected event type %q, got %q", "PredictionCompleted", event.EventType())
	}

	if event.AggregateID() != aggregateID {
		t.Errorf("expected aggregate ID %v, got %v", aggregateID, event.AggregateID())
	}

	if event.AggregateType() != "Prediction" {
		t.Errorf("expected aggregate type %q, got %q", "Prediction", event.AggregateType())
	}

	if event.OccurredAt().Before(before) || event.OccurredAt().After(after) {
		t.Errorf("expected occurredAt between %v and %v, got %v", before, after, event.OccurredAt())
	}
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
}

func TestHeaders(t *testing.T) {
	event := NewBaseEvent("HighRiskDetected", uuid.New(), "Prediction")

	headers := Headers(event)

	if headers["event_type"] != "HighRiskDetected" {
		t.Errorf("unexpected event_type header: %q", headers["event_type"])
	}
	if headers["event_id"] != event.EventID().String() {
		t.Errorf("unexpected event_id header: %q", headers["event_id"])
	}
	if headers["aggregate_type"] != "Prediction" {
		t.Errorf("unexpected aggregate_type header: %q", headers["aggregate_type"])
	}
	if _, err := time.Parse(time.RFC3339Nano, headers["occurred_at"]); err != nil {
		t.Errorf("occurred_at header is not RFC3339: %v", err)
	}
}

func TestEventCollectorRecord(t *testing.T) {
	collector := &EventCollector{}
	aggregateID := uuid.New()

	collector.Record(NewBaseEvent("Event1", aggregateID, "Aggregate"))
	collector.Record(NewBaseEvent("Event2", aggregateID, "Aggregate"))

	events := collector.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	if events[0].EventType() != "Event1" {
		t.Errorf("expected first event type %q, got %q", "Event1", events[0].EventType())
	}

	if events[1].EventType() != "Event2" {
		t.Errorf("expected second event type %q, got %q", "Event2", events[1].EventType())
	}
}

func TestEventCollectorClearEvents(t *testing.T) {
	collector := &EventCollector{}
	collector.Record(NewBaseEvent("Event1", uuid.New(), "Aggregate"))

	cleared := collector.ClearEvents()

	if len(cleared) != 1 {
		t.Fatalf("expected ClearEvents to return 1 event, got %d", len(cleared))
	}
	if len(collector.Events()) != 0 {
		t.Errorf("expected no events after ClearEvents, got %d", len(collector.Events()))
	}
	if again := collector.ClearEvents(); again != nil {
		t.Errorf("expected nil from ClearEvents on empty collector, got %v", again)
	}
}
