// Package recurrence derives the equilibrium distribution and the mean
// recurrence matrix H from a transition matrix P. It also implements the
// ergodicity test: a transition matrix is declared non-ergodic when the
// (K-1)x(K-1) sub-block A = Pk - I is numerically singular, in which case
// the solver degrades to the well-defined fallback of a zero H and a
// uniform equilibrium vector, rather than aborting the engine.
package recurrence

import (
	"math"

	"stochproc/linalg"
)

const ergodicDetTol = 1e-3

// Result holds the solver's outputs.
type Result struct {
	H       *linalg.Matrix // mean recurrence matrix, K x K
	EqP     []float64      // equilibrium distribution, length K
	Ergodic bool
}

// Solve computes H and eqP for the given transition matrix P (K x K).
func Solve(p *linalg.Matrix) Result {
	k, _ := p.Dims()
	if k == 1 {
		h := linalg.NewMatrix(1, 1, []float64{1})
		return Result{H: h, EqP: []float64{1}, Ergodic: true}
	}

	// Partition P = [[P0, Pu]; [Pl, Pk]].
	pu := p.Sub(0, 1, 1, k)
	pk := p.Sub(1, k, 1, k)

	a := pk.Sub2(linalg.Eye(k - 1))
	if math.Abs(a.Det()) < ergodicDetTol {
		// Non-ergodic: zero H, uniform fallback equilibrium.
		eq := make([]float64, k)
		for i := range eq {
			eq[i] = 1.0 / float64(k)
		}
		return Result{H: linalg.Zeros(k, k), EqP: eq, Ergodic: false}
	}

	aInv, err := a.Inv()
	if err != nil {
		eq := make([]float64, k)
		for i := range eq {
			eq[i] = 1.0 / float64(k)
		}
		return Result{H: linalg.Zeros(k, k), EqP: eq, Ergodic: false}
	}

	// w_k = -Pu . Ainv  (1 x (K-1))
	wk := pu.Scale(-1).Mul(aInv)

	w := make([]float64, k)
	w[0] = 1
	for j := 0; j < k-1; j++ {
		w[j+1] = wk.At(0, j)
	}
	total := 0.0
	for _, wi := range w {
		total += wi
	}
	for i := range w {
		w[i] /= total
	}

	// W is K x K with every row equal to w.
	wMat := linalg.Zeros(k, k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			wMat.Set(i, j, w[j])
		}
	}

	// Z = (I_K - P + W)^-1
	im := linalg.Eye(k)
	zArg := im.Sub2(p).Add(wMat)
	z, err := zArg.Inv()
	if err != nil {
		eq := make([]float64, k)
		for i := range eq {
			eq[i] = 1.0 / float64(k)
		}
		return Result{H: linalg.Zeros(k, k), EqP: eq, Ergodic: false}
	}

	h := linalg.Zeros(k, k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			if i == j {
				h.Set(i, j, 1.0/w[j])
			} else {
				h.Set(i, j, (z.At(j, j)-z.At(i, j))/w[j])
			}
		}
	}

	eqP := make([]float64, k)
	for kk := 0; kk < k; kk++ {
		eqP[kk] = 1.0 / h.At(kk, kk)
	}

	return Result{H: h, EqP: eqP, Ergodic: true}
}
