package kernel

import "stochproc/linalg"

// Markov draws a member's next state by inverse-CDF sampling against the
// precomputed row-cumulative transition matrix.
type Markov struct {
	CumP *linalg.Matrix // K x K, row-wise cumulative of P
}

func (Markov) Kind() Kind { return KindMarkov }

// Next returns the smallest j with CumP[from][j] > u, clamped to K-1.
func (m Markov) Next(from int, _ int, u Uniform) int {
	return cumulativeSample(m.CumP.Row(from), u)
}
