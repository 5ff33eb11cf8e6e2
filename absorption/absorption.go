// Package absorption implements the first-absorption solver: partition
// states into absorbing (P[k][k]=1) and transient, then compute expected
// absorption times and absorption-destination probabilities on the
// transient sub-chain.
package absorption

import "stochproc/linalg"

const absorbingTol = 1e-9

// Result holds the solver's outputs. States carries 1-based indices, as
// preserved for downstream consumption; Times and Probs are indexed by
// transient-state position (0-based internally).
type Result struct {
	Times  []float64   // expected absorption time per transient state
	Probs  [][]float64 // [transient][absorbing] destination probability
	States []int       // 1-based indices of the absorbing states, in order
}

// Solve partitions p into transient/absorbing states and computes the
// first-absorption statistics. If either partition is empty, it returns an
// empty Result.
func Solve(p *linalg.Matrix) Result {
	k, _ := p.Dims()
	var transient, abs []int
	for i := 0; i < k; i++ {
		if p.At(i, i) >= 1-absorbingTol {
			abs = append(abs, i)
		} else {
			transient = append(transient, i)
		}
	}
	if len(transient) == 0 || len(abs) == 0 {
		return Result{}
	}

	nT, nA := len(transient), len(abs)
	q := linalg.Zeros(nT, nT)
	r := linalg.Zeros(nT, nA)
	for i, si := range transient {
		for j, sj := range transient {
			q.Set(i, j, p.At(si, sj))
		}
		for j, sj := range abs {
			r.Set(i, j, p.At(si, sj))
		}
	}

	im := linalg.Eye(nT)
	nMat, err := im.Sub2(q).Inv()
	if err != nil {
		return Result{}
	}

	abT := make([]float64, nT)
	for i := 0; i < nT; i++ {
		sum := 0.0
		for j := 0; j < nT; j++ {
			sum += nMat.At(i, j)
		}
		abT[i] = sum
	}

	abP := nMat.Mul(r)
	probs := make([][]float64, nT)
	for i := 0; i < nT; i++ {
		probs[i] = abP.Row(i)
	}

	states := make([]int, nA)
	for i, s := range abs {
		states[i] = s + 1 // one-based for downstream consumption
	}

	return Result{Times: abT, Probs: probs, States: states}
}
