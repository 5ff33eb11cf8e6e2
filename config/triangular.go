package config

import (
	"math"

	"stochproc/linalg"
)

// statesFromTriangleLen recovers K = round((1+sqrt(1+8n))/2) from the
// length n of an upper-triangular probability/amplitude vector.
func statesFromTriangleLen(n int) int {
	return int(math.Round((1 + math.Sqrt(1+8*float64(n))) / 2))
}

// BuildFromUpperTriangle recovers K and fills a dense transition matrix
// from an upper-triangular probability vector p[n], n = (K^2-K)/2: p[i][j]
// for j>i is filled in row-major upper-triangular order, mirrored to j<i,
// and each row is closed with P[i][i] = 1 - sum of the others.
func BuildFromUpperTriangle(p []float64) (*linalg.Matrix, error) {
	k := statesFromTriangleLen(len(p))
	if k*(k-1)/2 != len(p) {
		return nil, newConfigError("upper-triangle vector length %d does not match any K", len(p))
	}
	m := linalg.Zeros(k, k)
	idx := 0
	rowTotal := make([]float64, k)
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			v := p[idx]
			idx++
			m.Set(i, j, v)
			m.Set(j, i, v)
			rowTotal[i] += v
			rowTotal[j] += v
		}
	}
	for i := 0; i < k; i++ {
		m.Set(i, i, 1-rowTotal[i])
	}
	return m, nil
}

// BuildFromAlpha normalizes n = (K^2-K)/2 jump-rate amplitudes into
// probabilities p[k] = alpha[k]/sum(alpha), then builds the transition
// matrix the same way as BuildFromUpperTriangle.
func BuildFromAlpha(alpha []float64) (*linalg.Matrix, error) {
	total := 0.0
	for _, a := range alpha {
		total += a
	}
	if total <= 0 {
		return nil, newConfigError("alpha amplitudes must sum to a positive value")
	}
	p := make([]float64, len(alpha))
	for i, a := range alpha {
		p[i] = a / total
	}
	return BuildFromUpperTriangle(p)
}
