package valueobject

import "fmt"

// RiskLevel is an immutable value object representing a diabetes risk bucket.
type RiskLevel struct {
	value      string
	label      string
	confidence string
}

var (
	RiskLevelVeryLow  = RiskLevel{value: "very_low", label: "Very Low Risk", confidence: "Confident"}
	RiskLevelLow      = RiskLevel{value: "low", label: "Low Risk", confidence: "Moderately Confident"}
	RiskLevelModerate = RiskLevel{value: "moderate", label: "Moderate Risk", confidence: "Caution Advised"}
	RiskLevelHigh     = RiskLevel{value: "high", label: "High Risk", confidence: "High Concern"}
)

// Upper bounds (exclusive) of the very_low, low and moderate buckets, in percent.
const (
	veryLowUpperBound  = 30.0
	lowUpperBound      = 50.0
	moderateUpperBound = 70.0
)

// RiskLevelFromString reconstructs a RiskLevel from its tag.
func RiskLevelFromString(s string) (RiskLevel, error) {
	switch s {
	case "very_low":
		return RiskLevelVeryLow, nil
	case "low":
		return RiskLevelLow, nil
	case "moderate":
		return RiskLevelModerate, nil
	case "high":
		return RiskLevelHigh, nil
	default:
		return RiskLevel{}, fmt.Errorf("invalid risk level: %s", s)
	}
}

// RiskLevelFromPercentage buckets a risk percentage (0-100). Each bucket is
// half-open on its upper bound, so 30 is low and 70 is high.
func RiskLevelFromPercentage(pct float64) RiskLevel {
	switch {
	case pct < veryLowUpperBound:
		return RiskLevelVeryLow
	case pct < lowUpperBound:
		return RiskLevelLow
	case pct < moderateUpperBound:
		return RiskLevelModerate
	default:
		return RiskLevelHigh
	}
}

// String returns the machine tag, e.g. "very_low".
func (r RiskLevel) String() string {
	return r.value
}

// Label returns the human-readable label, e.g. "Very Low Risk".
func (r RiskLevel) Label() string {
	return r.label
}

// Confidence returns the confidence text shown alongside the label.
func (r RiskLevel) Confidence() string {
	return r.confidence
}

// IsZero returns true if the RiskLevel has not been set.
func (r RiskLevel) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskLevel.
func (r RiskLevel) Equal(other RiskLevel) bool {
	return r.value == other.value
}
