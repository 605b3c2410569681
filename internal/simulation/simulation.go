// Package simulation implements the WTI-driven petrochemical cost model.
// All prices are single-variable affine regressions of the WTI reference
// price; the SM manufacturing cost is a fixed-yield recipe over the derived
// feedstock prices. Computation is pure: no I/O and no failure modes.
package simulation

import (
	"time"

	"github.com/google/uuid"

	"github.com/jskimlam/iranwar-simulation/internal/config"
	"github.com/jskimlam/iranwar-simulation/internal/models"
)

// Model evaluates the regression-based cost model for one WTI price.
type Model struct {
	benzene       config.Regression
	ethylene      config.Regression
	smMarket      config.Regression
	benzeneYield  float64
	ethyleneYield float64
	targetMargin  float64
}

// New creates a Model from the simulation configuration.
func New(cfg config.SimulationConfig) *Model {
	return &Model{
		benzene:       cfg.Benzene,
		ethylene:      cfg.Ethylene,
		smMarket:      cfg.SMMarket,
		benzeneYield:  cfg.BenzeneYield,
		ethyleneYield: cfg.EthyleneYield,
		targetMargin:  cfg.TargetMargin,
	}
}

// TargetMargin returns the margin threshold used for classification.
func (m *Model) TargetMargin() float64 {
	return m.targetMargin
}

// Compute derives feedstock and SM prices from the WTI reference price and
// returns the resulting snapshot. riskPremium is added on the SM market
// price leg only; pass 0 for the plain live reading.
func (m *Model) Compute(wti, riskPremium float64, source string, at time.Time) *models.Snapshot {
	benzene := wti*m.benzene.Slope + m.benzene.Intercept
	ethylene := wti*m.ethylene.Slope + m.ethylene.Intercept
	smMarket := wti*m.smMarket.Slope + m.smMarket.Intercept + riskPremium

	smCost := benzene*m.benzeneYield + ethylene*m.ethyleneYield
	margin := smMarket - smCost

	return &models.Snapshot{
		ID:        uuid.NewString(),
		Timestamp: at,
		WTI:       wti,
		Benzene:   benzene,
		Ethylene:  ethylene,
		SMMarket:  smMarket,
		SMCost:    smCost,
		Margin:    margin,
		Status:    m.Classify(margin),
		Source:    source,
	}
}

// Classify maps a margin to its profitability status. A margin exactly on
// the target is Healthy.
func (m *Model) Classify(margin float64) models.Status {
	if margin < m.targetMargin {
		return models.StatusMarginSqueeze
	}
	return models.StatusHealthy
}

// ScenarioResult pairs a stress scenario with the snapshot it produces.
type ScenarioResult struct {
	Scenario models.Scenario
	Snapshot *models.Snapshot
}

// EvaluateScenarios runs the model over each scenario's WTI level and risk
// premium.
func (m *Model) EvaluateScenarios(scenarios []models.Scenario, at time.Time) []ScenarioResult {
	results := make([]ScenarioResult, 0, len(scenarios))
	for _, sc := range scenarios {
		results = append(results, ScenarioResult{
			Scenario: sc,
			Snapshot: m.Compute(sc.WTI, sc.RiskPremium, "scenario", at),
		})
	}
	return results
}
