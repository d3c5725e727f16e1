package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/bibhealth/diabetes-risk/internal/domain/model"
	"github.com/bibhealth/diabetes-risk/pkg/events"
)

// Classifier is the opaque, pre-trained binary classifier. Implementations are
// loaded once at startup and must be safe for concurrent read-only use.
type Classifier interface {
	// PredictProba returns one [P(class=0), P(class=1)] pair per input row.
	PredictProba(ctx context.Context, rows [][]float64) ([][]float64, error)
}

// PredictionRepository defines the persistence port for the prediction audit trail.
type PredictionRepository interface {
	// Save persists a scored prediction.
	Save(ctx context.Context, prediction *model.Prediction) error

	// FindByID retrieves a prediction by its unique identifier. It returns
	// (nil, nil) when no prediction exists.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Prediction, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, events ...events.DomainEvent) error
}
