package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/bibhealth/diabetes-risk/internal/application/dto"
	"github.com/bibhealth/diabetes-risk/internal/application/usecase"
)

const (
	serviceName = "diabetes-risk"

	// maxBodyBytes caps the /predict request body.
	maxBodyBytes = 1 << 20

	// PredictionIDHeader carries the id of the stored prediction.
	PredictionIDHeader = "X-Prediction-ID"
)

// RiskHandler serves the prediction and demonstration endpoints.
type RiskHandler struct {
	predictRisk   *usecase.PredictRisk
	getPrediction *usecase.GetPrediction
	catalog       *usecase.Catalog
	index         []byte
	logger        *slog.Logger
}

// NewRiskHandler creates a new RiskHandler. index is the page served at "/".
func NewRiskHandler(
	predictRisk *usecase.PredictRisk,
	getPrediction *usecase.GetPrediction,
	catalog *usecase.Catalog,
	index []byte,
	logger *slog.Logger,
) *RiskHandler {
	return &RiskHandler{
		predictRisk:   predictRisk,
		getPrediction: getPrediction,
		catalog:       catalog,
		index:         index,
		logger:        logger,
	}
}

// RegisterRoutes registers the risk endpoints on the provided ServeMux.
func (h *RiskHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("POST /predict", h.Predict)
	mux.HandleFunc("GET /sample_data", h.SampleData)
	mux.HandleFunc("GET /health_stats", h.HealthStats)
	mux.HandleFunc("GET /predictions/{id}", h.GetPrediction)
}

// Index serves the presentation page.
func (h *RiskHandler) Index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.index)
}

// Predict scores the posted features. Every failure is reported as
// {"success": false, "error": ...} with status 200.
func (h *RiskHandler) Predict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := RequestIDFromContext(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	features, err := dto.DecodeFeatures(body)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp, err := h.predictRisk.Execute(ctx, dto.PredictRequest{
		RequestID: requestID,
		Features:  features,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set(PredictionIDHeader, resp.PredictionID)
	writeJSON(w, http.StatusOK, resp)
}

// SampleData returns the demonstration profiles.
func (h *RiskHandler) SampleData(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Samples())
}

// HealthStats returns the informational statistics.
func (h *RiskHandler) HealthStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.HealthStats())
}

// GetPrediction returns a stored prediction by id.
func (h *RiskHandler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	rec, err := h.getPrediction.Execute(r.Context(), r.PathValue("id"))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, usecase.ErrInvalidPredictionID):
			status = http.StatusBadRequest
		case errors.Is(err, usecase.ErrPredictionNotFound):
			status = http.StatusNotFound
		case errors.Is(err, usecase.ErrAuditDisabled):
			status = http.StatusServiceUnavailable
		default:
			h.logger.ErrorContext(r.Context(), "failed to get prediction",
				slog.String("request_id", RequestIDFromContext(r.Context())),
				slog.String("error", err.Error()),
			)
		}
		writeJSON(w, status, dto.NewErrorResponse(err))
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *RiskHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "prediction failed",
		slog.String("request_id", RequestIDFromContext(r.Context())),
		slog.String("error", err.Error()),
	)
	writeJSON(w, http.StatusOK, dto.NewErrorResponse(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		body, _ = json.Marshal(dto.ErrorResponse{Error: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
