package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bibhealth/diabetes-risk/internal/application/dto"
	"github.com/bibhealth/diabetes-risk/internal/domain/port"
)

var (
	// ErrAuditDisabled is returned when no prediction repository is configured.
	ErrAuditDisabled = errors.New("prediction audit is not enabled")

	// ErrPredictionNotFound is returned when no stored prediction has the id.
	ErrPredictionNotFound = errors.New("prediction not found")

	// ErrInvalidPredictionID is returned when the id is not a UUID.
	ErrInvalidPredictionID = errors.New("invalid prediction id")
)

// GetPrediction is the use case for retrieving a stored prediction.
type GetPrediction struct {
	repo port.PredictionRepository
}

// NewGetPrediction creates a new GetPrediction use case. repo may be nil.
func NewGetPrediction(repo port.PredictionRepository) *GetPrediction {
	return &GetPrediction{repo: repo}
}

// Execute looks up a prediction by its id.
func (uc *GetPrediction) Execute(ctx context.Context, id string) (dto.PredictionRecordResponse, error) {
	if uc.repo == nil {
		return dto.PredictionRecordResponse{}, ErrAuditDisabled
	}

	predictionID, err := uuid.Parse(id)
	if err != nil {
		return dto.PredictionRecordResponse{}, fmt.Errorf("%w: %w", ErrInvalidPredictionID, err)
	}

	prediction, err := uc.repo.FindByID(ctx, predictionID)
	if err != nil {
		return dto.PredictionRecordResponse{}, fmt.Errorf("failed to find prediction: %w", err)
	}
	if prediction == nil {
		return dto.PredictionRecordResponse{}, ErrPredictionNotFound
	}

	return dto.RecordFromModel(prediction), nil
}
