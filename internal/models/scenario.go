package models

// Scenario is one what-if stress case: a WTI level plus a conflict risk
// premium added on top of the SM market price.
type Scenario struct {
	Label       string  `json:"label"`
	WTI         float64 `json:"wti"`
	RiskPremium float64 `json:"risk_premium"`
}

// DefaultScenarios returns the five-step escalation ladder evaluated on
// every run. Levels are fixed, not derived from the live price.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Label: "Base", WTI: 78.45, RiskPremium: 0},
		{Label: "Mild", WTI: 85.00, RiskPremium: 50},
		{Label: "Moderate", WTI: 90.00, RiskPremium: 100},
		{Label: "Severe", WTI: 95.00, RiskPremium: 150},
		{Label: "Crisis", WTI: 100.00, RiskPremium: 200},
	}
}
