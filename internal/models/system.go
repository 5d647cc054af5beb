package models

import "time"

// Bus type tags. Informational in this simplified model: only the first
// bus in a SystemDefinition is load-bearing (it is always the slack
// reference, whatever its declared type says).
const (
	BusSlack = "SLACK"
	BusPV    = "PV"
	BusPQ    = "PQ"
)

// Bus is one node of the transmission network.
type Bus struct {
	ID     int     `json:"id"`   // 1-based, unique within a system
	Type   string  `json:"type"` // SLACK | PV | PQ
	LoadMW float64 `json:"load_mw"`
	// Layout coordinates for the external editor; the engine ignores them.
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`
}

// Generator is a dispatchable unit attached to a bus.
type Generator struct {
	ID     string  `json:"id"`
	Bus    int     `json:"bus"`
	PMinMW float64 `json:"p_min_mw"` // p_min_mw <= p_max_mw
	PMaxMW float64 `json:"p_max_mw"`
	CostB  float64 `json:"cost_b"` // $/MWh linear coefficient
	CostC  float64 `json:"cost_c"` // $/hr fixed/no-load cost
	// Quadratic coefficient; carried in the data model but not consumed
	// by the merit-order dispatch.
	CostA float64 `json:"cost_a,omitempty"`
}

// Line is a transmission branch between two buses.
type Line struct {
	ID          string  `json:"id"`
	FromBus     int     `json:"from_bus"`
	ToBus       int     `json:"to_bus"`
	ReactancePU float64 `json:"reactance_pu"` // per-unit, > 0 for sane data
	CapacityMW  float64 `json:"capacity_mw"`  // thermal limit
}

// HoursPerDay is the length of every load-factor sequence and of every
// simulation run.
const HoursPerDay = 24

// SystemDefinition is the full static input of one simulation run:
// topology, fleet, and the 24 hourly load-scaling factors (index 0 =
// hour 0). The bus at index 0 is always treated as the slack reference.
type SystemDefinition struct {
	Buses       []Bus       `json:"buses"`
	Generators  []Generator `json:"generators"`
	Lines       []Line      `json:"lines"`
	LoadFactors []float64   `json:"load_factors"`
}

// GridSystem is a stored, named system definition that the external
// editor creates and mutates between runs.
type GridSystem struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Definition SystemDefinition `json:"definition"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
