package engine

import (
	"fmt"
	"math"
	"sort"

	"gridsim/internal/models"
)

const (
	// MVABase converts between MW and per-unit quantities.
	MVABase = 100.0

	// reserveFactor is the fixed 10% reserve margin the commitment
	// heuristic holds above forecast load.
	reserveFactor = 1.10

	// overloadPct is the loading threshold above which a line alert fires.
	overloadPct = 100.0
)

// avgCostAtMax is the commitment ranking key: average $/MWh of a unit run
// flat out at PMax, fixed cost included. This intentionally differs from
// the dispatch ranking key (plain CostB); the two-key asymmetry is part
// of the heuristic, not a bug to unify.
func avgCostAtMax(g models.Generator) float64 {
	return (g.CostB*g.PMaxMW + g.CostC) / g.PMaxMW
}

// SimulateHour computes one hour's commitment, dispatch, DC power flow,
// line loadings and marginal price. It is a pure function of the static
// definition, the prebuilt network model, and the hour's load factor;
// hours share no state.
func SimulateHour(def models.SystemDefinition, net *Network, hour int, factor float64) models.HourlyResult {
	res := models.HourlyResult{
		Hour:       hour,
		Committed:  make(map[string]bool, len(def.Generators)),
		DispatchMW: make(map[string]float64, len(def.Generators)),
		FlowMW:     make(map[string]float64, len(def.Lines)),
		LoadingPct: make(map[string]float64, len(def.Lines)),
		PriceByBus: make(map[int]float64, len(def.Buses)),
	}

	// Load scaling.
	busLoad := make([]float64, len(def.Buses))
	totalLoad := 0.0
	for i, b := range def.Buses {
		busLoad[i] = b.LoadMW * factor
		totalLoad += busLoad[i]
	}
	res.TotalLoadMW = totalLoad

	// Unit commitment: walk units cheapest-first by average cost at PMax,
	// committing until capacity covers load plus reserve. Ties keep input
	// order (stable sort) so runs are deterministic.
	order := make([]models.Generator, len(def.Generators))
	copy(order, def.Generators)
	sort.SliceStable(order, func(i, j int) bool {
		return avgCostAtMax(order[i]) < avgCostAtMax(order[j])
	})

	for _, g := range def.Generators {
		res.Committed[g.ID] = false
		res.DispatchMW[g.ID] = 0
	}
	target := reserveFactor * totalLoad
	committed := make([]models.Generator, 0, len(order))
	capacity := 0.0
	for _, g := range order {
		if capacity >= target {
			break
		}
		committed = append(committed, g)
		capacity += g.PMaxMW
		res.Committed[g.ID] = true
	}

	// Economic dispatch: committed units re-ranked by linear cost alone.
	// Every committed unit is floored at PMin and charged its no-load cost
	// whether or not it produces above the floor; the remainder of load is
	// then topped up merit-order. If committed capacity cannot cover load,
	// the shortfall is left in place and shows up as net injection
	// imbalance, deliberately not reported as an error.
	sort.SliceStable(committed, func(i, j int) bool {
		return committed[i].CostB < committed[j].CostB
	})

	output := make(map[string]float64, len(committed))
	remaining := totalLoad
	cost := 0.0
	for _, g := range committed {
		output[g.ID] = g.PMinMW
		remaining -= g.PMinMW
		cost += g.CostC + g.CostB*g.PMinMW
	}
	for _, g := range committed {
		if remaining <= 0 {
			break
		}
		take := math.Min(g.PMaxMW-g.PMinMW, remaining)
		output[g.ID] += take
		cost += take * g.CostB
		remaining -= take
	}
	res.TotalCost = cost
	for id, out := range output {
		res.DispatchMW[id] = out
	}

	// DC power flow: per-bus net injection in per-unit, slack entry
	// removed, reduced system solved for the non-slack angles. The slack
	// angle is 0 by definition. On solver failure (or a non-finite
	// solution from contaminated input data) the hour falls back to an
	// all-zero angle vector, yielding zero flows instead of a crash.
	injection := make([]float64, len(def.Buses))
	for i := range injection {
		injection[i] = -busLoad[i]
	}
	for _, g := range committed {
		injection[net.BusIndex[g.Bus]] += output[g.ID]
	}

	angles := make([]float64, len(def.Buses))
	if len(def.Buses) > 1 {
		p := make([]float64, len(def.Buses)-1)
		for i := range p {
			p[i] = injection[i+1] / MVABase
		}
		sol, err := Solve(net.BReduced, p)
		if err != nil || !allFinite(sol) {
			res.SolverFallback = true
		} else {
			copy(angles[1:], sol)
		}
	}

	// Line flows and loadings. Overloads are reported, never re-dispatched;
	// congestion-aware corrective dispatch is out of scope here.
	for _, ln := range def.Lines {
		i := net.BusIndex[ln.FromBus]
		j := net.BusIndex[ln.ToBus]
		flow := (angles[i] - angles[j]) / ln.ReactancePU * MVABase
		loading := math.Abs(flow) / ln.CapacityMW * 100
		res.FlowMW[ln.ID] = flow
		res.LoadingPct[ln.ID] = loading
		if loading > overloadPct {
			res.Alerts = append(res.Alerts,
				fmt.Sprintf("line %s (bus %d-bus %d) overloaded at %.1f%%", ln.ID, ln.FromBus, ln.ToBus, loading))
		}
	}

	// Marginal price: the first unit in dispatch order sitting strictly
	// between its bounds sets the system price; with every unit pinned at
	// a bound, the last unit in order stands in. One uniform value for
	// all buses; this model has no congestion-driven price separation.
	price := 0.0
	if len(committed) > 0 {
		marginal := committed[len(committed)-1]
		for _, g := range committed {
			out := output[g.ID]
			if out > g.PMinMW && out < g.PMaxMW {
				marginal = g
				break
			}
		}
		price = marginal.CostB
	}
	for _, b := range def.Buses {
		res.PriceByBus[b.ID] = price
	}

	return res
}
