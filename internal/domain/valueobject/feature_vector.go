package valueobject

import "fmt"

// FeatureCount is the number of features the classifier expects.
const FeatureCount = 8

// Feature indices in model column order.
const (
	Pregnancies = iota
	Glucose
	BloodPressure
	SkinThickness
	Insulin
	BMI
	DiabetesPedigreeFunction
	Age
)

// FeatureNames lists the request field names in model column order.
var FeatureNames = [FeatureCount]string{
	"Pregnancies",
	"Glucose",
	"BloodPressure",
	"SkinThickness",
	"Insulin",
	"BMI",
	"DiabetesPedigreeFunction",
	"Age",
}

// FeatureVector is an ordered set of the eight clinical measurements.
// It is an array so that assignment copies it.
type FeatureVector [FeatureCount]float64

// FeatureVectorFromSlice builds a FeatureVector from a slice of exactly
// FeatureCount values.
func FeatureVectorFromSlice(values []float64) (FeatureVector, error) {
	var fv FeatureVector
	if len(values) != FeatureCount {
		return fv, fmt.Errorf("feature vector must have %d values, got %d", FeatureCount, len(values))
	}
	copy(fv[:], values)
	return fv, nil
}

// FeatureVectorFromMap builds a FeatureVector from named values. Names that
// are absent default to 0.
func FeatureVectorFromMap(values map[string]float64) FeatureVector {
	var fv FeatureVector
	for i, name := range FeatureNames {
		fv[i] = values[name]
	}
	return fv
}

// Slice returns a copy of the vector as a slice.
func (fv FeatureVector) Slice() []float64 {
	out := make([]float64, FeatureCount)
	copy(out, fv[:])
	return out
}

// Map returns the vector keyed by feature name.
func (fv FeatureVector) Map() map[string]float64 {
	out := make(map[string]float64, FeatureCount)
	for i, name := range FeatureNames {
		out[name] = fv[i]
	}
	return out
}
