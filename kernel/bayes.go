package kernel

import "stochproc/linalg"

// Bayes draws a member's next state via Metropolis-Hastings: propose a
// candidate from the row-cumulative proposal table, then accept it with
// probability min(1, (pi[to]/pi[from]) * (P[to][from]/P[from][to])) against
// the stationary target pi.
type Bayes struct {
	CumP *linalg.Matrix // K x K proposal table, row-cumulative
	P    *linalg.Matrix // K x K proposal table, one-step (non-cumulative)
	Pi   []float64      // target stationary distribution, length K
}

func (Bayes) Kind() Kind { return KindBayes }

func (b Bayes) Next(from int, _ int, u Uniform) int {
	to := cumulativeSample(b.CumP.Row(from), u)
	if to == from {
		return from
	}

	piFrom, piTo := b.Pi[from], b.Pi[to]
	qForward := b.P.At(from, to)
	qBackward := b.P.At(to, from)

	alpha := 1.0
	if piFrom > 0 && qForward > 0 {
		alpha = (piTo / piFrom) * (qBackward / qForward)
		if alpha > 1 {
			alpha = 1
		}
	}

	if u() <= alpha {
		return to
	}
	return from
}
