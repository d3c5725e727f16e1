package testutil

import (
	"github.com/google/uuid"
)

// Fixed identifiers for deterministic testing.
var (
	TestPredictionID1 = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestPredictionID2 = uuid.MustParse("00000000-0000-0000-0000-000000000002")
)

// Raw feature rows in model column order: Pregnancies, Glucose,
// BloodPressure, SkinThickness, Insulin, BMI, DiabetesPedigreeFunction, Age.
var (
	HealthyAdultFeatures = []float64{2, 110, 72, 28, 85, 24.5, 0.3, 28}
	PreDiabeticFeatures  = []float64{4, 165, 85, 35, 0, 34.2, 0.8, 48}
)
