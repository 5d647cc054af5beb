package engine

import "gridsim/internal/models"

// Network is the static susceptance model of one system. It is built once
// per run and shared read-only across all 24 hourly computations; a re-run
// after an input edit rebuilds it from scratch.
type Network struct {
	// BusIndex maps bus id to its position in the definition's bus order.
	// Position 0 is the slack reference regardless of declared bus type.
	BusIndex map[int]int

	// B is the full N×N nodal susceptance matrix.
	B [][]float64

	// BReduced is B with the slack row and column removed, the (N−1)×(N−1)
	// system actually solved for the non-slack voltage angles.
	BReduced [][]float64
}

// BuildNetwork accumulates the nodal susceptance matrix from line data
// and derives its slack-reduced form. Lines are undirected for this
// purpose: each contributes ±1/x stamps to both endpoint rows.
//
// Reactance values are not validated here. A reactance of exactly zero
// propagates Inf into the matrix and is treated as a data-quality concern
// of the caller; downstream the solve falls back to zero angles.
func BuildNetwork(buses []models.Bus, lines []models.Line) *Network {
	n := len(buses)

	idx := make(map[int]int, n)
	for i, b := range buses {
		idx[b.ID] = i
	}

	b := make([][]float64, n)
	for i := range b {
		b[i] = make([]float64, n)
	}
	for _, ln := range lines {
		i := idx[ln.FromBus]
		j := idx[ln.ToBus]
		y := 1 / ln.ReactancePU
		b[i][i] += y
		b[j][j] += y
		b[i][j] -= y
		b[j][i] -= y
	}

	var reduced [][]float64
	for i := 1; i < n; i++ {
		row := make([]float64, n-1)
		copy(row, b[i][1:])
		reduced = append(reduced, row)
	}

	return &Network{BusIndex: idx, B: b, BReduced: reduced}
}
