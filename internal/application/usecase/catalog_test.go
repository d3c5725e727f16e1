package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibhealth/diabetes-risk/internal/application/dto"
	"github.com/bibhealth/diabetes-risk/internal/application/usecase"
	"github.com/bibhealth/diabetes-risk/internal/domain/valueobject"
)

func TestCatalog_Samples(t *testing.T) {
	c := usecase.NewCatalog()
	samples := c.Samples()

	require.Len(t, samples, 4)
	ids := make([]string, 0, len(samples))
	for _, s := range samples {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"low_risk_1", "high_risk_1", "moderate_risk_1", "very_low_risk_1"}, ids)

	assert.Equal(t, "Pre-diabetic", samples[1].Name)
	assert.InDelta(t, 0.0, samples[1].Insulin, 1e-9)
	assert.Equal(t, "#e74c3c", samples[1].Color)

	// Mutating the returned slice must not affect the catalog.
	samples[0].Name = "changed"
	assert.Equal(t, "Healthy Adult", c.Samples()[0].Name)
}

func TestCatalog_HealthStats(t *testing.T) {
	c := usecase.NewCatalog()
	stats := c.HealthStats()

	assert.Len(t, stats, 7)
	assert.Equal(t, "537 million", stats["global_diabetes_cases"])
	assert.Equal(t, "72%", stats["model_accuracy"])
	assert.Equal(t, "Reduces complications by 70%", stats["early_detection_impact"])

	stats["annual_deaths"] = "0"
	assert.Equal(t, "6.7 million", c.HealthStats()["annual_deaths"])
}

func TestCatalog_SampleFeatures(t *testing.T) {
	c := usecase.NewCatalog()

	fv, ok := c.SampleFeatures("moderate_risk_1")
	require.True(t, ok)
	assert.Equal(t, valueobject.FeatureVector{3, 140, 78, 32, 120, 29.8, 0.6, 42}, fv)

	_, ok = c.SampleFeatures("unknown")
	assert.False(t, ok)
}

func TestCatalog_SamplesScoreThroughPredictRisk(t *testing.T) {
	c := usecase.NewCatalog()
	uc := newPredictRisk(t, &mockClassifier{p1: 0.4}, nil, nil)

	for _, s := range c.Samples() {
		fv, ok := c.SampleFeatures(s.ID)
		require.True(t, ok)

		resp, err := uc.Execute(context.Background(), dto.PredictRequest{RequestID: s.ID, Features: fv})
		require.NoError(t, err, s.ID)
		assert.Equal(t, fv.Slice(), resp.Features, s.ID)
	}
}
