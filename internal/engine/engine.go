// Package engine implements the grid simulation core: a dense linear
// solver, a DC power-flow susceptance model, and a 24-hour loop of
// merit-order unit commitment, economic dispatch, flow solution and
// line-loading evaluation.
package engine

import "gridsim/internal/models"

// RunSimulation runs one full day for the given system definition and
// returns exactly 24 hourly results in increasing hour order. The network
// model is built once; each hour is computed independently from it and
// that hour's load factor. The call is side-effect-free and deterministic
// for identical input.
func RunSimulation(def models.SystemDefinition) []models.HourlyResult {
	net := BuildNetwork(def.Buses, def.Lines)

	results := make([]models.HourlyResult, 0, models.HoursPerDay)
	for h := 0; h < models.HoursPerDay; h++ {
		factor := 0.0
		if h < len(def.LoadFactors) {
			factor = def.LoadFactors[h]
		}
		results = append(results, SimulateHour(def, net, h, factor))
	}
	return results
}
