package models

import (
	"errors"
	"time"
)

// Status classifies the profitability of a snapshot against the target margin.
type Status string

const (
	// StatusHealthy means the SM margin is at or above the target margin.
	StatusHealthy Status = "Healthy"
	// StatusMarginSqueeze means the SM margin fell below the target margin.
	StatusMarginSqueeze Status = "MarginSqueeze"
)

// TimeLayout is the minute-precision capture-time format used in reports.
const TimeLayout = "2006-01-02 15:04 UTC"

// Snapshot represents one point-in-time profitability reading derived from
// a single WTI reference price. It is created once per run and immediately
// serialized; it has no further lifecycle. Prices are USD per metric ton
// except WTI, which is USD per barrel.
type Snapshot struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	WTI       float64   `json:"wti"`
	Benzene   float64   `json:"benzene"`
	Ethylene  float64   `json:"ethylene"`
	SMMarket  float64   `json:"sm_market"`
	SMCost    float64   `json:"sm_cost"`
	Margin    float64   `json:"margin"`
	Status    Status    `json:"status"`
	Source    string    `json:"source"`
}

// FormattedTime returns the capture time in the report layout.
func (s *Snapshot) FormattedTime() string {
	return s.Timestamp.UTC().Format(TimeLayout)
}

// Validate checks that all structural snapshot fields are valid.
// Price values are deliberately not range-checked: negative, zero, or NaN
// prices flow through into the outputs unchanged.
func (s *Snapshot) Validate() error {
	if s.ID == "" {
		return errors.New("snapshot ID must not be empty")
	}
	if s.Timestamp.IsZero() {
		return errors.New("timestamp must be set")
	}
	if s.Timestamp.After(time.Now().Add(time.Minute)) {
		return errors.New("timestamp must not be in the future")
	}
	if s.Status != StatusHealthy && s.Status != StatusMarginSqueeze {
		return errors.New("status must be 'Healthy' or 'MarginSqueeze'")
	}
	if s.Source == "" {
		return errors.New("source must not be empty")
	}
	return nil
}
