package models

import "time"

// HourlyResult is the engine's output for a single simulated hour.
// Records are emitted once per hour in increasing hour order and never
// mutated afterwards.
type HourlyResult struct {
	Hour        int     `json:"hour"` // 0..23
	TotalLoadMW float64 `json:"total_load_mw"`

	// Keyed by generator id.
	Committed  map[string]bool    `json:"committed"`
	DispatchMW map[string]float64 `json:"dispatch_mw"`

	// Keyed by line id. FlowMW is signed in the line's from->to direction.
	FlowMW     map[string]float64 `json:"flow_mw"`
	LoadingPct map[string]float64 `json:"loading_pct"`

	TotalCost float64 `json:"total_cost"` // $/hr

	// One uniform system-wide marginal price assigned to every bus;
	// keyed by bus id. A simplification versus true locational pricing.
	PriceByBus map[int]float64 `json:"price_by_bus"`

	Alerts []string `json:"alerts,omitempty"`

	// SolverFallback marks hours where the DC power-flow solve failed
	// and an all-zero angle vector was substituted, yielding zero flows.
	SolverFallback bool `json:"solver_fallback,omitempty"`
}

// SimulationRun is the persisted ledger row for one full 24-hour run.
type SimulationRun struct {
	RunID      string         `json:"run_id"`
	SystemID   string         `json:"system_id"`
	StartedAt  time.Time      `json:"started_at"`
	TotalCost  float64        `json:"total_cost"`   // sum over 24 hours, $
	PeakLoadMW float64        `json:"peak_load_mw"` // max hourly total load
	AlertCount int            `json:"alert_count"`  // overload alerts over all hours
	Results    []HourlyResult `json:"results,omitempty"`
}
