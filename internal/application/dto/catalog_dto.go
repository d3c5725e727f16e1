package dto

// SampleProfile is a demonstration patient shown by the web page.
type SampleProfile struct {
	ID                       string  `json:"id"`
	Name                     string  `json:"name"`
	Description              string  `json:"description"`
	ExpectedResult           string  `json:"expected_result"`
	Color                    string  `json:"color"`
	Pregnancies              float64 `json:"Pregnancies"`
	Glucose                  float64 `json:"Glucose"`
	BloodPressure            float64 `json:"BloodPressure"`
	SkinThickness            float64 `json:"SkinThickness"`
	Insulin                  float64 `json:"Insulin"`
	BMI                      float64 `json:"BMI"`
	DiabetesPedigreeFunction float64 `json:"DiabetesPedigreeFunction"`
	Age                      float64 `json:"Age"`
}

// HealthStats is a fixed set of informational figures keyed by name.
type HealthStats map[string]string
