package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibhealth/diabetes-risk/internal/application/dto"
	"github.com/bibhealth/diabetes-risk/internal/domain/model"
	"github.com/bibhealth/diabetes-risk/internal/domain/port"
	"github.com/bibhealth/diabetes-risk/internal/domain/service"
)

const instrumentationName = "github.com/bibhealth/diabetes-risk/internal/application/usecase"

// PredictRisk is the use case for scoring one feature vector.
//
// Recording to the audit repository and publishing events are best-effort:
// their failures are logged and never change the response.
type PredictRisk struct {
	classifier    *service.RiskClassifier
	repo          port.PredictionRepository
	publisher     port.EventPublisher
	logger        *slog.Logger
	tracer        trace.Tracer
	predictions   metric.Int64Counter
	duration      metric.Float64Histogram
	modelAccuracy float64
}

// NewPredictRisk creates a new PredictRisk use case. repo and publisher may be
// nil, in which case predictions are neither stored nor published. meter may
// be nil to disable metrics.
func NewPredictRisk(
	classifier *service.RiskClassifier,
	repo port.PredictionRepository,
	publisher port.EventPublisher,
	modelAccuracy float64,
	meter metric.Meter,
	logger *slog.Logger,
) (*PredictRisk, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter(instrumentationName)
	}

	predictions, err := meter.Int64Counter("predictions_total",
		metric.WithDescription("Number of prediction requests by risk level and outcome."),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create predictions counter: %w", err)
	}

	duration, err := meter.Float64Histogram("prediction_duration_seconds",
		metric.WithDescription("Time spent preprocessing and scoring a feature vector."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prediction duration histogram: %w", err)
	}

	return &PredictRisk{
		classifier:    classifier,
		repo:          repo,
		publisher:     publisher,
		modelAccuracy: modelAccuracy,
		logger:        logger,
		tracer:        otel.Tracer(instrumentationName),
		predictions:   predictions,
		duration:      duration,
	}, nil
}

// Ready reports whether a classifier is loaded.
func (uc *PredictRisk) Ready() bool {
	return uc.classifier.Ready()
}

// Execute scores the request's features and returns the response DTO.
func (uc *PredictRisk) Execute(ctx context.Context, req dto.PredictRequest) (dto.PredictionResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "PredictRisk.Execute")
	defer span.End()

	start := time.Now()

	// 1. Score via the domain service.
	prediction, err := uc.classifier.Classify(ctx, req.Features)
	uc.duration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		uc.predictions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("risk_level", "none"),
			attribute.String("outcome", "error"),
		))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return dto.PredictionResponse{}, err
	}

	uc.predictions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("risk_level", prediction.RiskLevel().String()),
		attribute.String("outcome", "success"),
	))
	span.SetAttributes(
		attribute.String("prediction.id", prediction.ID().String()),
		attribute.String("prediction.risk_level", prediction.RiskLevel().String()),
		attribute.Float64("prediction.risk_percentage", prediction.RiskPercentage()),
	)

	// 2. Audit and publish.
	uc.record(ctx, req.RequestID, prediction)

	return dto.FromModel(prediction, uc.modelAccuracy), nil
}

func (uc *PredictRisk) record(ctx context.Context, requestID string, prediction *model.Prediction) {
	if uc.repo != nil {
		if err := uc.repo.Save(ctx, prediction); err != nil {
			uc.logger.ErrorContext(ctx, "failed to save prediction",
				slog.String("request_id", requestID),
				slog.String("prediction_id", prediction.ID().String()),
				slog.String("error", err.Error()),
			)
		}
	}

	evts := prediction.DomainEvents()
	if uc.publisher == nil || len(evts) == 0 {
		return
	}
	if err := uc.publisher.Publish(ctx, evts...); err != nil {
		uc.logger.ErrorContext(ctx, "failed to publish prediction events",
			slog.String("request_id", requestID),
			slog.String("prediction_id", prediction.ID().String()),
			slog.Int("event_count", len(evts)),
			slog.String("error", err.Error()),
		)
	}
}
