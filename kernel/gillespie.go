package kernel

import "stochproc/linalg"

// Gillespie draws a member's next state from holding-time ratios: a
// temporary row Q[j] = RT[from][j]/RT[from][from] for j != from (Q[from] =
// 0), cumulated and renormalized by its final cumulant, then sampled by
// inverse-CDF.
type Gillespie struct {
	RT *linalg.Matrix // K x K mean recurrence / holding-time table
}

func (Gillespie) Kind() Kind { return KindGillespie }

func (g Gillespie) Next(from int, _ int, u Uniform) int {
	k, _ := g.RT.Dims()
	row := g.RT.Row(from)
	diag := row[from]
	q := make([]float64, k)
	for j := 0; j < k; j++ {
		if j == from {
			q[j] = 0
			continue
		}
		if diag != 0 {
			q[j] = row[j] / diag
		}
	}
	total := 0.0
	for j := range q {
		total += q[j]
		q[j] = total
	}
	if total > 0 {
		for j := range q {
			q[j] /= total
		}
	}
	return cumulativeSample(q, u)
}
