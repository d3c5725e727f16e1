package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibhealth/diabetes-risk/internal/application/dto"
	"github.com/bibhealth/diabetes-risk/internal/application/usecase"
	"github.com/bibhealth/diabetes-risk/internal/domain/valueobject"
)

// RiskServiceHandler implements the gRPC RiskServiceServer interface.
type RiskServiceHandler struct {
	UnimplementedRiskServiceServer
	predictRisk   *usecase.PredictRisk
	getPrediction *usecase.GetPrediction
	logger        *slog.Logger
}

// NewRiskServiceHandler creates a new gRPC handler for the risk service.
func NewRiskServiceHandler(
	predictRisk *usecase.PredictRisk,
	getPrediction *usecase.GetPrediction,
	logger *slog.Logger,
) *RiskServiceHandler {
	return &RiskServiceHandler{
		predictRisk:   predictRisk,
		getPrediction: getPrediction,
		logger:        logger,
	}
}

// PredictRequest represents the proto PredictRequest message.
type PredictRequest struct {
	Pregnancies              float64 `json:"Pregnancies"`
	Glucose                  float64 `json:"Glucose"`
	BloodPressure            float64 `json:"BloodPressure"`
	SkinThickness            float64 `json:"SkinThickness"`
	Insulin                  float64 `json:"Insulin"`
	BMI                      float64 `json:"BMI"`
	DiabetesPedigreeFunction float64 `json:"DiabetesPedigreeFunction"`
	Age                      float64 `json:"Age"`
}

func (r *PredictRequest) features() valueobject.FeatureVector {
	return valueobject.FeatureVector{
		r.Pregnancies, r.Glucose, r.BloodPressure, r.SkinThickness,
		r.Insulin, r.BMI, r.DiabetesPedigreeFunction, r.Age,
	}
}

// PredictResponse represents the proto PredictResponse message. A failed
// prediction sets Success to false and carries only Error.
type PredictResponse struct {
	PredictionID          string    `json:"prediction_id,omitempty"`
	Features              []float64 `json:"features,omitempty"`
	RiskLevel             string    `json:"risk_level,omitempty"`
	RiskLabel             string    `json:"risk_label,omitempty"`
	ConfidenceText        string    `json:"confidence_text,omitempty"`
	Message               string    `json:"message,omitempty"`
	Error                 string    `json:"error,omitempty"`
	ProbabilityDiabetes   float64   `json:"probability_diabetes"`
	ProbabilityNoDiabetes float64   `json:"probability_no_diabetes"`
	RiskPercentage        float64   `json:"risk_percentage"`
	ModelAccuracy         float64   `json:"model_accuracy"`
	Prediction            int32     `json:"prediction"`
	Success               bool      `json:"success"`
}

// GetPredictionRequest represents the proto GetPredictionRequest message.
type GetPredictionRequest struct {
	ID string `json:"id"`
}

// PredictionRecordMsg represents the proto PredictionRecord message.
type PredictionRecordMsg struct {
	CreatedAt           time.Time          `json:"created_at"`
	Features            map[string]float64 `json:"features"`
	ID                  string             `json:"id"`
	RiskLevel           string             `json:"risk_level"`
	RiskLabel           string             `json:"risk_label"`
	Message             string             `json:"message"`
	ProbabilityDiabetes float64            `json:"probability_diabetes"`
	RiskPercentage      float64            `json:"risk_percentage"`
	Prediction          int32              `json:"prediction"`
}

// GetPredictionResponse represents the proto GetPredictionResponse message.
type GetPredictionResponse struct {
	Prediction *PredictionRecordMsg `json:"prediction"`
}

// Predict scores a patient. Prediction failures are reported in the
// response body, matching the HTTP endpoint.
func (h *RiskServiceHandler) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.predictRisk.Execute(ctx, dto.PredictRequest{Features: req.features()})
	if err != nil {
		h.logger.WarnContext(ctx, "grpc prediction failed", slog.String("error", err.Error()))
		return &PredictResponse{Success: false, Error: err.Error()}, nil
	}

	return &PredictResponse{
		Success:               true,
		PredictionID:          result.PredictionID,
		Prediction:            int32(result.Prediction),
		ProbabilityDiabetes:   result.ProbabilityDiabetes,
		ProbabilityNoDiabetes: result.ProbabilityNoDiabetes,
		RiskPercentage:        result.RiskPercentage,
		RiskLevel:             result.RiskLevel,
		RiskLabel:             result.RiskLabel,
		ConfidenceText:        result.ConfidenceText,
		Message:               result.Message,
		ModelAccuracy:         result.ModelAccuracy,
		Features:              result.Features,
	}, nil
}

// GetPrediction returns a stored prediction.
func (h *RiskServiceHandler) GetPrediction(ctx context.Context, req *GetPredictionRequest) (*GetPredictionResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	rec, err := h.getPrediction.Execute(ctx, req.ID)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrInvalidPredictionID):
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	case errors.Is(err, usecase.ErrPredictionNotFound):
		return nil, status.Error(codes.NotFound, "prediction not found")
	case errors.Is(err, usecase.ErrAuditDisabled):
		return nil, status.Error(codes.Unavailable, err.Error())
	default:
		h.logger.ErrorContext(ctx, "failed to get prediction",
			slog.String("id", req.ID),
			slog.String("error", err.Error()),
		)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &GetPredictionResponse{
		Prediction: &PredictionRecordMsg{
			ID:                  rec.ID,
			CreatedAt:           rec.CreatedAt,
			Features:            rec.Features,
			Prediction:          int32(rec.Prediction),
			ProbabilityDiabetes: rec.ProbabilityDiabetes,
			RiskPercentage:      rec.RiskPercentage,
			RiskLevel:           rec.RiskLevel,
			RiskLabel:           rec.RiskLabel,
			Message:             rec.Message,
		},
	}, nil
}
