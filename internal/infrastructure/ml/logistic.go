package ml

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/bibhealth/diabetes-risk/internal/domain/valueobject"
)

const logisticModelType = "logistic_regression"

// logisticArtifact is the on-disk form of a fitted binary logistic regression.
type logisticArtifact struct {
	ModelType    string    `json:"model_type"`
	Classes      []int     `json:"classes"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Accuracy     float64   `json:"accuracy"`
}

// LogisticModel scores standardized feature rows with fixed logistic
// regression weights. It is immutable after load.
type LogisticModel struct {
	info         ModelInfo
	coefficients []float64
	intercept    float64
}

// LoadLogisticModel reads a logistic regression artifact from a JSON file.
func LoadLogisticModel(path string) (*LogisticModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelLoad, err)
	}

	var a logisticArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %w", ErrModelLoad, path, err)
	}

	m, err := NewLogisticModel(a.Coefficients, a.Intercept)
	if err != nil {
		return nil, err
	}

	if a.ModelType != "" && a.ModelType != logisticModelType {
		return nil, fmt.Errorf("%w: unexpected model_type %q", ErrModelLoad, a.ModelType)
	}
	if len(a.Classes) > 0 && (len(a.Classes) != 2 || a.Classes[0] != 0 || a.Classes[1] != 1) {
		return nil, fmt.Errorf("%w: classes must be [0, 1], got %v", ErrModelLoad, a.Classes)
	}

	sum := sha256.Sum256(data)
	m.info.Path = path
	m.info.Fingerprint = hex.EncodeToString(sum[:])
	m.info.Accuracy = a.Accuracy
	return m, nil
}

// NewLogisticModel builds a model from in-memory weights.
func NewLogisticModel(coefficients []float64, intercept float64) (*LogisticModel, error) {
	if len(coefficients) != valueobject.FeatureCount {
		return nil, fmt.Errorf("%w: expected %d coefficients, got %d",
			ErrModelLoad, valueobject.FeatureCount, len(coefficients))
	}
	for i, c := range coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("%w: coefficient %d is not finite", ErrModelLoad, i)
		}
	}

	w := make([]float64, len(coefficients))
	copy(w, coefficients)

	return &LogisticModel{
		coefficients: w,
		intercept:    intercept,
		info: ModelInfo{
			Type:        logisticModelType,
			Fingerprint: weightsDigest(w, intercept),
			Classes:     []int{0, 1},
		},
	}, nil
}

func weightsDigest(coefficients []float64, intercept float64) string {
	h := sha256.New()
	var buf [8]byte
	write := func(v float64) {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	for _, c := range coefficients {
		write(c)
	}
	write(intercept)
	return hex.EncodeToString(h.Sum(nil))
}

// PredictProba returns [P(0), P(1)] for each row.
func (m *LogisticModel) PredictProba(_ context.Context, rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(m.coefficients) {
			return nil, fmt.Errorf("row %d has %d features, model expects %d", i, len(row), len(m.coefficients))
		}
		z := m.intercept
		for j, x := range row {
			z += m.coefficients[j] * x
		}
		p1 := sigmoid(z)
		out[i] = []float64{1 - p1, p1}
	}
	return out, nil
}

// Info describes the loaded artifact.
func (m *LogisticModel) Info() ModelInfo {
	info := m.info
	info.Classes = append([]int(nil), m.info.Classes...)
	return info
}

// Close is a no-op.
func (m *LogisticModel) Close() error { return nil }

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
