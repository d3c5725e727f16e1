package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/bibhealth/diabetes-risk/internal/application/dto"
	"github.com/bibhealth/diabetes-risk/internal/application/usecase"
	"github.com/bibhealth/diabetes-risk/internal/domain/event"
	"github.com/bibhealth/diabetes-risk/internal/domain/model"
	"github.com/bibhealth/diabetes-risk/internal/domain/port"
	"github.com/bibhealth/diabetes-risk/internal/domain/service"
	"github.com/bibhealth/diabetes-risk/internal/domain/valueobject"
	"github.com/bibhealth/diabetes-risk/pkg/events"
)

// --- Mock implementations ---

type mockClassifier struct {
	predictFunc func(ctx context.Context, rows [][]float64) ([][]float64, error)
	p1          float64
}

func (m *mockClassifier) PredictProba(ctx context.Context, rows [][]float64) ([][]float64, error) {
	if m.predictFunc != nil {
		return m.predictFunc(ctx, rows)
	}
	return [][]float64{{1 - m.p1, m.p1}}, nil
}

type mockPredictionRepository struct {
	saved        []*model.Prediction
	saveFunc     func(ctx context.Context, prediction *model.Prediction) error
	findByIDFunc func(ctx context.Context, id uuid.UUID) (*model.Prediction, error)
}

func (m *mockPredictionRepository) Save(ctx context.Context, prediction *model.Prediction) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, prediction)
	}
	m.saved = append(m.saved, prediction)
	return nil
}

func (m *mockPredictionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Prediction, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	for _, p := range m.saved {
		if p.ID() == id {
			return p, nil
		}
	}
	return nil, nil
}

type mockEventPublisher struct {
	published   []events.DomainEvent
	publishFunc func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.published = append(m.published, evts...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPredictRisk(t *testing.T, clf *mockClassifier, repo *mockPredictionRepository, pub *mockEventPublisher) *usecase.PredictRisk {
	t.Helper()

	// Typed nil pointers must not leak into the interface arguments.
	var (
		classifier port.Classifier
		repository port.PredictionRepository
		publisher  port.EventPublisher
	)
	if clf != nil {
		classifier = clf
	}
	if repo != nil {
		repository = repo
	}
	if pub != nil {
		publisher = pub
	}

	rc := service.NewRiskClassifier(service.NewPreprocessor(), classifier)
	uc, err := usecase.NewPredictRisk(rc, repository, publisher, 0.72, nil, discardLogger())
	require.NoError(t, err)
	return uc
}

// --- Tests ---

func sampleRequest() dto.PredictRequest {
	return dto.PredictRequest{
		RequestID: "req-1",
		Features:  valueobject.FeatureVector{2, 110, 72, 28, 85, 24.5, 0.3, 28},
	}
}

func TestPredictRisk_Execute(t *testing.T) {
	t.Run("scores and echoes the raw features", func(t *testing.T) {
		uc := newPredictRisk(t, &mockClassifier{p1: 0.25}, nil, nil)

		resp, err := uc.Execute(context.Background(), sampleRequest())
		require.NoError(t, err)

		assert.True(t, resp.Success)
		assert.Equal(t, 0, resp.Prediction)
		assert.InDelta(t, 0.25, resp.ProbabilityDiabetes, 1e-9)
		assert.InDelta(t, 0.75, resp.ProbabilityNoDiabetes, 1e-9)
		assert.InDelta(t, 25.0, resp.RiskPercentage, 1e-9)
		assert.Equal(t, "very_low", resp.RiskLevel)
		assert.Equal(t, "Very Low Risk", resp.RiskLabel)
		assert.Equal(t, model.MessageNoDiabetesDetected, resp.Message)
		assert.InDelta(t, 0.72, resp.ModelAccuracy, 1e-9)
		assert.Equal(t, []float64{2, 110, 72, 28, 85, 24.5, 0.3, 28}, resp.Features)
		assert.NotEmpty(t, resp.PredictionID)
	})

	t.Run("returns model unavailable without a classifier", func(t *testing.T) {
		uc := newPredictRisk(t, nil, nil, nil)

		assert.False(t, uc.Ready())
		_, err := uc.Execute(context.Background(), sampleRequest())
		require.ErrorIs(t, err, service.ErrModelUnavailable)
	})

	t.Run("propagates classifier failures", func(t *testing.T) {
		clf := &mockClassifier{predictFunc: func(_ context.Context, _ [][]float64) ([][]float64, error) {
			return nil, fmt.Errorf("tensor shape mismatch")
		}}
		repo := &mockPredictionRepository{}
		uc := newPredictRisk(t, clf, repo, nil)

		_, err := uc.Execute(context.Background(), sampleRequest())
		require.ErrorIs(t, err, service.ErrClassification)
		assert.Contains(t, err.Error(), "tensor shape mismatch")
		assert.Empty(t, repo.saved)
	})

	t.Run("saves the prediction and publishes its events", func(t *testing.T) {
		repo := &mockPredictionRepository{}
		pub := &mockEventPublisher{}
		uc := newPredictRisk(t, &mockClassifier{p1: 0.85}, repo, pub)

		resp, err := uc.Execute(context.Background(), sampleRequest())
		require.NoError(t, err)

		require.Len(t, repo.saved, 1)
		assert.Equal(t, resp.PredictionID, repo.saved[0].ID().String())

		require.Len(t, pub.published, 2)
		assert.Equal(t, event.EventTypePredictionCompleted, pub.published[0].EventType())
		assert.Equal(t, event.EventTypeHighRiskDetected, pub.published[1].EventType())
	})

	t.Run("audit failures do not fail the prediction", func(t *testing.T) {
		repo := &mockPredictionRepository{saveFunc: func(_ context.Context, _ *model.Prediction) error {
			return fmt.Errorf("connection refused")
		}}
		pub := &mockEventPublisher{publishFunc: func(_ context.Context, _ ...events.DomainEvent) error {
			return fmt.Errorf("broker unavailable")
		}}
		uc := newPredictRisk(t, &mockClassifier{p1: 0.6}, repo, pub)

		resp, err := uc.Execute(context.Background(), sampleRequest())
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "moderate", resp.RiskLevel)
	})
}

func TestPredictRisk_RecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	rc := service.NewRiskClassifier(service.NewPreprocessor(), &mockClassifier{p1: 0.9})
	uc, err := usecase.NewPredictRisk(rc, nil, nil, 0.72, provider.Meter("test"), discardLogger())
	require.NoError(t, err)

	for range 3 {
		_, err := uc.Execute(context.Background(), sampleRequest())
		require.NoError(t, err)
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var (
		total    int64
		observed uint64
	)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				if m.Name == "predictions_total" {
					for _, dp := range data.DataPoints {
						level, _ := dp.Attributes.Value("risk_level")
						assert.Equal(t, "high", level.AsString())
						total += dp.Value
					}
				}
			case metricdata.Histogram[float64]:
				if m.Name == "prediction_duration_seconds" {
					for _, dp := range data.DataPoints {
						observed += dp.Count
					}
				}
			}
		}
	}

	assert.Equal(t, int64(3), total)
	assert.Equal(t, uint64(3), observed)
}
