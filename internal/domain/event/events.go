package event

import (
	"github.com/google/uuid"

	"github.com/bibhealth/diabetes-risk/pkg/events"
)

const (
	// EventTypePredictionCompleted is emitted for every successful prediction.
	EventTypePredictionCompleted = "diabetes.prediction.completed"

	// EventTypeHighRiskDetected is emitted when a prediction lands in the high bucket.
	EventTypeHighRiskDetected = "diabetes.high_risk.detected"

	// AggregateTypePrediction names the aggregate that emits these events.
	AggregateTypePrediction = "Prediction"
)

// PredictionCompleted is published after a feature vector has been scored.
type PredictionCompleted struct {
	events.BaseEvent
	PredictionID        uuid.UUID `json:"prediction_id"`
	Prediction          int       `json:"prediction"`
	ProbabilityDiabetes float64   `json:"probability_diabetes"`
	RiskPercentage      float64   `json:"risk_percentage"`
	RiskLevel           string    `json:"risk_level"`
	Features            []float64 `json:"features"`
}

// NewPredictionCompleted creates a PredictionCompleted event.
func NewPredictionCompleted(
	predictionID uuid.UUID,
	prediction int,
	probabilityDiabetes, riskPercentage float64,
	riskLevel string,
	features []float64,
) PredictionCompleted {
	return PredictionCompleted{
		BaseEvent:           events.NewBaseEvent(EventTypePredictionCompleted, predictionID, AggregateTypePrediction),
		PredictionID:        predictionID,
		Prediction:          prediction,
		ProbabilityDiabetes: probabilityDiabetes,
		RiskPercentage:      riskPercentage,
		RiskLevel:           riskLevel,
		Features:            features,
	}
}

// HighRiskDetected is published when a prediction is bucketed as high risk.
type HighRiskDetected struct {
	events.BaseEvent
	PredictionID   uuid.UUID `json:"prediction_id"`
	RiskPercentage float64   `json:"risk_percentage"`
	Features       []float64 `json:"features"`
}

// NewHighRiskDetected creates a HighRiskDetected event.
func NewHighRiskDetected(predictionID uuid.UUID, riskPercentage float64, features []float64) HighRiskDetected {
	return HighRiskDetected{
		BaseEvent:      events.NewBaseEvent(EventTypeHighRiskDetected, predictionID, AggregateTypePrediction),
		PredictionID:   predictionID,
		RiskPercentage: riskPercentage,
		Features:       features,
	}
}
