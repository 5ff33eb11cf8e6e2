// Package numeric holds the small, leaf-level numeric helpers shared by the
// rest of the engine: deviate generation, in-place cumulative sums, array
// reductions, and the mixed-radix Cartesian-product permutation generator.
package numeric

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ExpDev draws a single exponential deviate with the given mean, via
// inverse-CDF sampling against a caller-supplied uniform source:
// ExpDev(mean) = distuv.Exponential{Rate: 1/mean}.Quantile(U(0,1)).
func ExpDev(mean float64, u01 func() float64) float64 {
	u := u01()
	// u is drawn from [0,1); redraw u=0 so the deviate is strictly positive.
	for u <= 0 {
		u = u01()
	}
	e := distuv.Exponential{Rate: 1 / mean}
	return e.Quantile(u)
}

// CumSum overwrites xs in place with its running sum.
func CumSum(xs []float64) {
	total := 0.0
	for i := range xs {
		total += xs[i]
		xs[i] = total
	}
}

// Sum returns the sum of xs.
func Sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}

// Avg returns the arithmetic mean of xs, or 0 for an empty slice.
func Avg(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return Sum(xs) / float64(len(xs))
}

// Max returns the largest value in xs, or -Inf for an empty slice.
func Max(xs []float64) float64 {
	m := math.Inf(-1)
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}

// Permutations returns the Cartesian product of [0,dims[0]) x [0,dims[1]) x ...,
// enumerated with the last dimension varying fastest. Each returned vector
// has len(dims) components.
func Permutations(dims []int) [][]int {
	total := 1
	for _, d := range dims {
		total *= d
	}
	out := make([][]int, 0, total)
	cur := make([]int, len(dims))
	var rec func(pos int)
	rec = func(pos int) {
		if pos == len(dims) {
			v := make([]int, len(dims))
			copy(v, cur)
			out = append(out, v)
			return
		}
		for i := 0; i < dims[pos]; i++ {
			cur[pos] = i
			rec(pos + 1)
		}
	}
	if len(dims) > 0 {
		rec(0)
	}
	return out
}

// MixedRadixIndex folds a per-dimension coordinate vector into a single
// integer index, least-significant dimension first: idx = sum_d k[d] *
// prod_{d'<d} dims[d'].
func MixedRadixIndex(coords, dims []int) int {
	idx := 0
	stride := 1
	for d := 0; d < len(dims); d++ {
		idx += coords[d] * stride
		stride *= dims[d]
	}
	return idx
}
