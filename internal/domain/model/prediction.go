package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/bibhealth/diabetes-risk/internal/domain/event"
	"github.com/bibhealth/diabetes-risk/internal/domain/valueobject"
	"github.com/bibhealth/diabetes-risk/pkg/events"
)

// DecisionThreshold is the P(diabetic) above which the binary prediction is 1.
// Equality maps to 0.
const DecisionThreshold = 0.5

const (
	MessageDiabetesDetected   = "Diabetes Detected"
	MessageNoDiabetesDetected = "No Diabetes Detected"
)

// Prediction is the aggregate produced by scoring one feature vector.
//
// The binary prediction and message come from DecisionThreshold, while the
// risk level comes from the percentage buckets. The two are independent and
// may disagree, e.g. 55% is "Moderate Risk" yet "Diabetes Detected".
type Prediction struct {
	createdAt             time.Time
	riskLevel             valueobject.RiskLevel
	domainEvents          events.EventCollector
	probabilityDiabetes   float64
	probabilityNoDiabetes float64
	riskPercentage        float64
	prediction            int
	features              valueobject.FeatureVector
	id                    uuid.UUID
}

// NewPrediction builds a Prediction from the raw (unprocessed) features and
// the classifier's class probabilities.
func NewPrediction(features valueobject.FeatureVector, probNoDiabetes, probDiabetes float64) (*Prediction, error) {
	if math.IsNaN(probDiabetes) || probDiabetes < 0 || probDiabetes > 1 {
		return nil, fmt.Errorf("probability of diabetes must be between 0 and 1, got %v", probDiabetes)
	}
	if math.IsNaN(probNoDiabetes) || probNoDiabetes < 0 || probNoDiabetes > 1 {
		return nil, fmt.Errorf("probability of no diabetes must be between 0 and 1, got %v", probNoDiabetes)
	}

	prediction := 0
	if probDiabetes > DecisionThreshold {
		prediction = 1
	}

	riskPercentage := probDiabetes * 100

	p := &Prediction{
		id:                    uuid.New(),
		features:              features,
		probabilityDiabetes:   probDiabetes,
		probabilityNoDiabetes: probNoDiabetes,
		prediction:            prediction,
		riskPercentage:        riskPercentage,
		riskLevel:             valueobject.RiskLevelFromPercentage(riskPercentage),
		createdAt:             time.Now().UTC(),
	}

	p.domainEvents.Record(event.NewPredictionCompleted(
		p.id, p.prediction, p.probabilityDiabetes, p.riskPercentage,
		p.riskLevel.String(), p.features.Slice(),
	))
	if p.riskLevel.Equal(valueobject.RiskLevelHigh) {
		p.domainEvents.Record(event.NewHighRiskDetected(p.id, p.riskPercentage, p.features.Slice()))
	}

	return p, nil
}

// Reconstruct rebuilds a Prediction from persisted data (no validation, no events).
func Reconstruct(
	id uuid.UUID,
	features valueobject.FeatureVector,
	probNoDiabetes, probDiabetes float64,
	prediction int,
	riskPercentage float64,
	riskLevel valueobject.RiskLevel,
	createdAt time.Time,
) *Prediction {
	return &Prediction{
		id:                    id,
		features:              features,
		probabilityDiabetes:   probDiabetes,
		probabilityNoDiabetes: probNoDiabetes,
		prediction:            prediction,
		riskPercentage:        riskPercentage,
		riskLevel:             riskLevel,
		createdAt:             createdAt,
	}
}

// --- Accessors ---

func (p *Prediction) ID() uuid.UUID                       { return p.id }
func (p *Prediction) Features() valueobject.FeatureVector { return p.features }
func (p *Prediction) Prediction() int                     { return p.prediction }
func (p *Prediction) ProbabilityDiabetes() float64        { return p.probabilityDiabetes }
func (p *Prediction) ProbabilityNoDiabetes() float64      { return p.probabilityNoDiabetes }
func (p *Prediction) RiskPercentage() float64             { return p.riskPercentage }
func (p *Prediction) RiskLevel() valueobject.RiskLevel    { return p.riskLevel }
func (p *Prediction) CreatedAt() time.Time                { return p.createdAt }

// Message returns the headline derived from the binary prediction.
func (p *Prediction) Message() string {
	if p.prediction == 1 {
		return MessageDiabetesDetected
	}
	return MessageNoDiabetesDetected
}

// DomainEvents returns all accumulated domain events and clears them.
func (p *Prediction) DomainEvents() []events.DomainEvent {
	return p.domainEvents.ClearEvents()
}
