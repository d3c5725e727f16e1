package usecase

import (
	"github.com/bibhealth/diabetes-risk/internal/application/dto"
	"github.com/bibhealth/diabetes-risk/internal/domain/valueobject"
)

// Catalog serves the static demonstration content. None of it is derived
// from the classifier.
type Catalog struct {
	samples []dto.SampleProfile
	stats   dto.HealthStats
}

// NewCatalog creates a Catalog with the built-in profiles and statistics.
func NewCatalog() *Catalog {
	return &Catalog{
		samples: []dto.SampleProfile{
			{
				ID:                       "low_risk_1",
				Name:                     "Healthy Adult",
				Description:              "Young individual with normal glucose levels",
				Pregnancies:              2,
				Glucose:                  110,
				BloodPressure:            72,
				SkinThickness:            28,
				Insulin:                  85,
				BMI:                      24.5,
				DiabetesPedigreeFunction: 0.3,
				Age:                      28,
				ExpectedResult:           "Low Risk",
				Color:                    "#2ecc71",
			},
			{
				ID:                       "high_risk_1",
				Name:                     "Pre-diabetic",
				Description:              "Elevated glucose and BMI",
				Pregnancies:              4,
				Glucose:                  165,
				BloodPressure:            85,
				SkinThickness:            35,
				Insulin:                  0,
				BMI:                      34.2,
				DiabetesPedigreeFunction: 0.8,
				Age:                      48,
				ExpectedResult:           "High Risk",
				Color:                    "#e74c3c",
			},
			{
				ID:                       "moderate_risk_1",
				Name:                     "Borderline Case",
				Description:              "Mixed indicators, requires monitoring",
				Pregnancies:              3,
				Glucose:                  140,
				BloodPressure:            78,
				SkinThickness:            32,
				Insulin:                  120,
				BMI:                      29.8,
				DiabetesPedigreeFunction: 0.6,
				Age:                      42,
				ExpectedResult:           "Moderate Risk",
				Color:                    "#f39c12",
			},
			{
				ID:                       "very_low_risk_1",
				Name:                     "Optimal Health",
				Description:              "All parameters in healthy ranges",
				Pregnancies:              1,
				Glucose:                  95,
				BloodPressure:            68,
				SkinThickness:            25,
				Insulin:                  75,
				BMI:                      22.3,
				DiabetesPedigreeFunction: 0.2,
				Age:                      25,
				ExpectedResult:           "Very Low Risk",
				Color:                    "#27ae60",
			},
		},
		stats: dto.HealthStats{
			"global_diabetes_cases":  "537 million",
			"predicted_2045":         "783 million",
			"annual_deaths":          "6.7 million",
			"undiagnosed_percentage": "44%",
			"prevention_success":     "58%",
			"model_accuracy":         "72%",
			"early_detection_impact": "Reduces complications by 70%",
		},
	}
}

// Samples returns a copy of the demonstration profiles in display order.
func (c *Catalog) Samples() []dto.SampleProfile {
	out := make([]dto.SampleProfile, len(c.samples))
	copy(out, c.samples)
	return out
}

// HealthStats returns a copy of the informational statistics.
func (c *Catalog) HealthStats() dto.HealthStats {
	out := make(dto.HealthStats, len(c.stats))
	for k, v := range c.stats {
		out[k] = v
	}
	return out
}

// SampleFeatures returns the feature vector of the sample with the given id.
func (c *Catalog) SampleFeatures(id string) (valueobject.FeatureVector, bool) {
	for _, s := range c.samples {
		if s.ID == id {
			return valueobject.FeatureVector{
				s.Pregnancies, s.Glucose, s.BloodPressure, s.SkinThickness,
				s.Insulin, s.BMI, s.DiabetesPedigreeFunction, s.Age,
			}, true
		}
	}
	return valueobject.FeatureVector{}, false
}
