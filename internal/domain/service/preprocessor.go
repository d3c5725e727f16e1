package service

import "github.com/bibhealth/diabetes-risk/internal/domain/valueobject"

// Training-set medians used to fill measurements recorded as 0. Only these
// five columns treat 0 as missing; zero pregnancies, pedigree or age are valid.
var trainingMedians = map[int]float64{
	valueobject.Glucose:       117.0,
	valueobject.BloodPressure: 72.0,
	valueobject.SkinThickness: 29.0,
	valueobject.Insulin:       125.0,
	valueobject.BMI:           32.0,
}

// Training-set statistics used for z-score standardization.
var (
	standardizationMeans = valueobject.FeatureVector{3.8, 120.9, 69.1, 20.5, 79.8, 32.0, 0.47, 33.2}
	standardizationStds  = valueobject.FeatureVector{3.4, 31.9, 19.4, 16.0, 115.2, 7.9, 0.33, 11.8}
)

// Preprocessor turns a raw feature vector into the model-ready representation:
// median imputation of zero readings followed by standardization.
//
// Preprocess is not re-entrant. Feeding its output back in would impute and
// standardize a second time, so it must run exactly once per raw vector.
type Preprocessor struct {
	medians map[int]float64
	means   valueobject.FeatureVector
	stds    valueobject.FeatureVector
}

// NewPreprocessor creates a Preprocessor with the fixed training statistics.
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{
		medians: trainingMedians,
		means:   standardizationMeans,
		stds:    standardizationStds,
	}
}

// NewPreprocessorWithParams creates a Preprocessor with explicit statistics.
func NewPreprocessorWithParams(medians map[int]float64, means, stds valueobject.FeatureVector) *Preprocessor {
	return &Preprocessor{
		medians: medians,
		means:   means,
		stds:    stds,
	}
}

// Preprocess imputes then standardizes raw. raw is passed by value and is
// never modified.
func (p *Preprocessor) Preprocess(raw valueobject.FeatureVector) valueobject.FeatureVector {
	return p.Standardize(p.Impute(raw))
}

// Impute replaces readings exactly equal to 0 with the column median. A
// genuine zero measurement in an imputed column is indistinguishable from a
// missing one and is imputed as well.
func (p *Preprocessor) Impute(raw valueobject.FeatureVector) valueobject.FeatureVector {
	out := raw
	for idx, median := range p.medians {
		if idx < 0 || idx >= valueobject.FeatureCount {
			continue
		}
		if out[idx] == 0 {
			out[idx] = median
		}
	}
	return out
}

// Standardize applies (v - mean) / std per column. Columns with a zero std are
// left unchanged.
func (p *Preprocessor) Standardize(v valueobject.FeatureVector) valueobject.FeatureVector {
	out := v
	for i := range out {
		if p.stds[i] == 0 {
			continue
		}
		out[i] = (out[i] - p.means[i]) / p.stds[i]
	}
	return out
}
