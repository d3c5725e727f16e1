package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bibhealth/diabetes-risk/internal/domain/model"
	"github.com/bibhealth/diabetes-risk/internal/domain/valueobject"
)

// ErrInvalidFeature is returned when a request field cannot be read as a number.
var ErrInvalidFeature = errors.New("invalid feature value")

// PredictRequest is the input DTO for the PredictRisk use case.
type PredictRequest struct {
	RequestID string
	Features  valueobject.FeatureVector
}

// DecodeFeatures reads the eight named features from a JSON object. Absent
// fields default to 0. Values may be JSON numbers, numeric strings or
// booleans (true is 1, false is 0); null, arrays and objects are rejected.
// Unknown keys are ignored.
func DecodeFeatures(body []byte) (valueobject.FeatureVector, error) {
	var fv valueobject.FeatureVector

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fv, fmt.Errorf("request body must be a JSON object")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return fv, fmt.Errorf("invalid JSON body: %w", err)
	}

	for i, name := range valueobject.FeatureNames {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		v, err := parseNumber(raw)
		if err != nil {
			return fv, fmt.Errorf("%w for %s: %w", ErrInvalidFeature, name, err)
		}
		fv[i] = v
	}

	return fv, nil
}

func parseNumber(raw json.RawMessage) (float64, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return 0, err
	}

	var (
		f   float64
		err error
	)
	switch t := v.(type) {
	case json.Number:
		f, err = t.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("could not convert string to float: %q", t)
		}
	case bool:
		if t {
			f = 1
		}
	case nil:
		return 0, fmt.Errorf("value is null")
	default:
		return 0, fmt.Errorf("unsupported type %T", t)
	}
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("value must be a finite number")
	}
	return f, nil
}

// PredictionResponse is the output DTO of a successful prediction.
type PredictionResponse struct {
	Features              []float64 `json:"features"`
	RiskLevel             string    `json:"risk_level"`
	RiskLabel             string    `json:"risk_label"`
	ConfidenceText        string    `json:"confidence_text"`
	Message               string    `json:"message"`
	ProbabilityDiabetes   float64   `json:"probability_diabetes"`
	ProbabilityNoDiabetes float64   `json:"probability_no_diabetes"`
	RiskPercentage        float64   `json:"risk_percentage"`
	ModelAccuracy         float64   `json:"model_accuracy"`
	Prediction            int       `json:"prediction"`
	Success               bool      `json:"success"`

	// PredictionID is surfaced as the X-Prediction-ID header, not in the body.
	PredictionID string `json:"-"`
}

// ErrorResponse is the only body returned when a prediction fails.
type ErrorResponse struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

// NewErrorResponse builds a failure payload from err.
func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{Success: false, Error: err.Error()}
}

// FromModel maps a domain prediction to the response DTO.
func FromModel(p *model.Prediction, modelAccuracy float64) PredictionResponse {
	return PredictionResponse{
		Success:               true,
		PredictionID:          p.ID().String(),
		Prediction:            p.Prediction(),
		ProbabilityDiabetes:   p.ProbabilityDiabetes(),
		ProbabilityNoDiabetes: p.ProbabilityNoDiabetes(),
		RiskPercentage:        p.RiskPercentage(),
		RiskLevel:             p.RiskLevel().String(),
		RiskLabel:             p.RiskLevel().Label(),
		ConfidenceText:        p.RiskLevel().Confidence(),
		Message:               p.Message(),
		ModelAccuracy:         modelAccuracy,
		Features:              p.Features().Slice(),
	}
}

// PredictionRecordResponse is the audit view of a stored prediction.
type PredictionRecordResponse struct {
	CreatedAt           time.Time          `json:"created_at"`
	Features            map[string]float64 `json:"features"`
	ID                  string             `json:"id"`
	RiskLevel           string             `json:"risk_level"`
	RiskLabel           string             `json:"risk_label"`
	Message             string             `json:"message"`
	ProbabilityDiabetes float64            `json:"probability_diabetes"`
	RiskPercentage      float64            `json:"risk_percentage"`
	Prediction          int                `json:"prediction"`
}

// RecordFromModel maps a stored prediction to the audit DTO.
func RecordFromModel(p *model.Prediction) PredictionRecordResponse {
	return PredictionRecordResponse{
		ID:                  p.ID().String(),
		CreatedAt:           p.CreatedAt(),
		Features:            p.Features().Map(),
		Prediction:          p.Prediction(),
		ProbabilityDiabetes: p.ProbabilityDiabetes(),
		RiskPercentage:      p.RiskPercentage(),
		RiskLevel:           p.RiskLevel().String(),
		RiskLabel:           p.RiskLevel().Label(),
		Message:             p.Message(),
	}
}
