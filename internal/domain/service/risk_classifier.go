package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bibhealth/diabetes-risk/internal/domain/model"
	"github.com/bibhealth/diabetes-risk/internal/domain/port"
	"github.com/bibhealth/diabetes-risk/internal/domain/valueobject"
)

// ErrModelUnavailable is returned when no classifier was loaded at startup.
// The text is returned verbatim to API clients.
var ErrModelUnavailable = errors.New("Model not loaded properly") //nolint:staticcheck // client-facing message

// ErrClassification wraps failures raised by the underlying classifier.
var ErrClassification = errors.New("classification failed")

// RiskClassifier scores raw feature vectors with the loaded classifier and
// buckets the result. It holds no mutable state and is safe for concurrent use.
type RiskClassifier struct {
	preprocessor *Preprocessor
	classifier   port.Classifier
}

// NewRiskClassifier creates a RiskClassifier. classifier may be nil when the
// model artifact failed to load; Classify then returns ErrModelUnavailable.
func NewRiskClassifier(preprocessor *Preprocessor, classifier port.Classifier) *RiskClassifier {
	return &RiskClassifier{
		preprocessor: preprocessor,
		classifier:   classifier,
	}
}

// Ready reports whether a classifier is loaded.
func (c *RiskClassifier) Ready() bool {
	return c.classifier != nil
}

// Classify preprocesses raw, scores it and builds the Prediction. The returned
// Prediction echoes raw, not the preprocessed vector.
func (c *RiskClassifier) Classify(ctx context.Context, raw valueobject.FeatureVector) (*model.Prediction, error) {
	if c.classifier == nil {
		return nil, ErrModelUnavailable
	}

	processed := c.preprocessor.Preprocess(raw)

	probas, err := c.classifier.PredictProba(ctx, [][]float64{processed.Slice()})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClassification, err)
	}
	if len(probas) != 1 || len(probas[0]) != 2 {
		return nil, fmt.Errorf("%w: expected 1x2 probabilities, got %s", ErrClassification, shape(probas))
	}

	prediction, err := model.NewPrediction(raw, probas[0][0], probas[0][1])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClassification, err)
	}

	return prediction, nil
}

func shape(m [][]float64) string {
	if len(m) == 0 {
		return "0x0"
	}
	return fmt.Sprintf("%dx%d", len(m), len(m[0]))
}
