package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibhealth/diabetes-risk/internal/domain/service"
	"github.com/bibhealth/diabetes-risk/internal/domain/valueobject"
)

type stubClassifier struct {
	err    error
	out    [][]float64
	gotRow []float64
}

func (s *stubClassifier) PredictProba(_ context.Context, rows [][]float64) ([][]float64, error) {
	if len(rows) > 0 {
		s.gotRow = rows[0]
	}
	return s.out, s.err
}

func fixed(p1 float64) *stubClassifier {
	return &stubClassifier{out: [][]float64{{1 - p1, p1}}}
}

func TestRiskClassifier_ModelUnavailable(t *testing.T) {
	c := service.NewRiskClassifier(service.NewPreprocessor(), nil)

	assert.False(t, c.Ready())

	_, err := c.Classify(context.Background(), valueobject.FeatureVector{})
	require.ErrorIs(t, err, service.ErrModelUnavailable)
	assert.Equal(t, "Model not loaded properly", err.Error())
}

func TestRiskClassifier_FeedsPreprocessedRow(t *testing.T) {
	stub := fixed(0.2)
	pre := service.NewPreprocessor()
	c := service.NewRiskClassifier(pre, stub)
	raw := valueobject.FeatureVector{0, 0, 0, 0, 0, 0, 0, 0}

	_, err := c.Classify(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, pre.Preprocess(raw).Slice(), stub.gotRow)
}

func TestRiskClassifier_EchoesRawFeatures(t *testing.T) {
	c := service.NewRiskClassifier(service.NewPreprocessor(), fixed(0.9))
	raw := valueobject.FeatureVector{4, 165, 85, 35, 0, 34.2, 0.8, 48}

	p, err := c.Classify(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, raw, p.Features())
}

func TestRiskClassifier_Bucketing(t *testing.T) {
	tests := []struct {
		name       string
		p1         float64
		level      string
		label      string
		confidence string
		prediction int
		message    string
	}{
		{"very low", 0.10, "very_low", "Very Low Risk", "Confident", 0, "No Diabetes Detected"},
		{"low", 0.31, "low", "Low Risk", "Moderately Confident", 0, "No Diabetes Detected"},
		{"threshold tie", 0.50, "moderate", "Moderate Risk", "Caution Advised", 0, "No Diabetes Detected"},
		{"moderate but detected", 0.55, "moderate", "Moderate Risk", "Caution Advised", 1, "Diabetes Detected"},
		{"high", 0.71, "high", "High Risk", "High Concern", 1, "Diabetes Detected"},
		{"very high", 0.97, "high", "High Risk", "High Concern", 1, "Diabetes Detected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := service.NewRiskClassifier(service.NewPreprocessor(), fixed(tt.p1))

			p, err := c.Classify(context.Background(), valueobject.FeatureVector{})
			require.NoError(t, err)

			assert.Equal(t, tt.level, p.RiskLevel().String())
			assert.Equal(t, tt.label, p.RiskLevel().Label())
			assert.Equal(t, tt.confidence, p.RiskLevel().Confidence())
			assert.Equal(t, tt.prediction, p.Prediction())
			assert.Equal(t, tt.message, p.Message())
			assert.InDelta(t, tt.p1*100, p.RiskPercentage(), 1e-9)
		})
	}
}

func TestRiskClassifier_ClassifierError(t *testing.T) {
	c := service.NewRiskClassifier(service.NewPreprocessor(), &stubClassifier{err: fmt.Errorf("tensor shape mismatch")})

	_, err := c.Classify(context.Background(), valueobject.FeatureVector{})

	require.ErrorIs(t, err, service.ErrClassification)
	assert.Contains(t, err.Error(), "tensor shape mismatch")
}

func TestRiskClassifier_UnexpectedShape(t *testing.T) {
	c := service.NewRiskClassifier(service.NewPreprocessor(), &stubClassifier{out: [][]float64{{0.1, 0.2, 0.7}}})

	_, err := c.Classify(context.Background(), valueobject.FeatureVector{})

	require.ErrorIs(t, err, service.ErrClassification)
	assert.Contains(t, err.Error(), "1x3")
}
