package engine

import (
	"errors"
	"math"
)

// ErrSingular is returned when elimination runs into a zero pivot, i.e.
// the system has no unique solution. Callers in this package recover by
// substituting a zero angle vector rather than failing the whole hour.
var ErrSingular = errors.New("singular matrix: zero pivot column")

// Solve solves the dense linear system a·x = b using Gaussian elimination
// with partial pivoting followed by back-substitution. a must be square
// (n×n, n >= 1) and b of length n. The inputs are copied up front and
// never mutated.
func Solve(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)

	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		copy(m[i], a[i])
	}
	rhs := make([]float64, n)
	copy(rhs, b)

	for col := 0; col < n; col++ {
		// Pick the remaining row with the largest absolute value in this
		// column and swap it into pivot position.
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if m[pivot][col] == 0 {
			return nil, ErrSingular
		}
		if pivot != col {
			m[col], m[pivot] = m[pivot], m[col]
			rhs[col], rhs[pivot] = rhs[pivot], rhs[col]
		}

		for r := col + 1; r < n; r++ {
			factor := m[r][col] / m[col][col]
			for c := col; c < n; c++ {
				m[r][c] -= factor * m[col][c]
			}
			rhs[r] -= factor * rhs[col]
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := rhs[i]
		for c := i + 1; c < n; c++ {
			sum -= m[i][c] * x[c]
		}
		x[i] = sum / m[i][i]
	}
	return x, nil
}

// allFinite reports whether every element of v is a finite number.
// A solve over a matrix already contaminated with Inf (e.g. a
// zero-reactance line) can "succeed" while producing NaN angles; such a
// solution is as unusable as a singularity error.
func allFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
