// Package kernel implements the state-transition kernel: a dispatch over
// process variants. Rather than a map of closures keyed by a string
// selector, each variant is a small struct implementing the Categorical or
// Stateless interface, built from the configuration resolver's
// precomputed tables.
package kernel

import "stochproc/linalg"

// Kind tags which process variant a Kernel implements.
type Kind int

const (
	KindMarkov Kind = iota
	KindBayes
	KindGillespie
	KindGauss
	KindWiener
	KindOrnstein
)

func (k Kind) String() string {
	switch k {
	case KindMarkov:
		return "markov"
	case KindBayes:
		return "bayes"
	case KindGillespie:
		return "gillespie"
	case KindGauss:
		return "gauss"
	case KindWiener:
		return "wiener"
	case KindOrnstein:
		return "ornstein"
	default:
		return "unknown"
	}
}

// Stateless reports whether this kind of process has no discrete state
// space (gauss, wiener, ornstein are stateless; markov/bayes/gillespie are
// categorical).
func (k Kind) Stateless() bool {
	switch k {
	case KindGauss, KindWiener, KindOrnstein:
		return true
	default:
		return false
	}
}

// Uniform is a process-wide uniform [0,1) source. A single Uniform instance
// may be shared by many members of one ensemble stepper; determinism
// requires the host to seed and serialize access, and distinct engine
// instances should use distinct Uniform sources to remain
// independent.
type Uniform func() float64

// Normal is a process-wide standard-normal source, used by the wiener and
// ornstein kernels.
type Normal func() float64

// Categorical is implemented by markov, bayes and gillespie: kernels that
// draw a next discrete state given the current one.
type Categorical interface {
	Kind() Kind
	// Next draws the successor state for a member currently in state
	// `from` at time index t.
	Next(from int, t int, u Uniform) int
}

// Stateless is implemented by gauss, wiener and ornstein: kernels that draw
// or compute a scalar observation value rather than a discrete state.
type Stateless interface {
	Kind() Kind
}

// cumulativeSample performs inverse-CDF sampling against a row of
// cumulative probabilities: draw u ~ U(0,1), return the smallest index j
// with row[j] > u, clamped to len(row)-1.
func cumulativeSample(row []float64, u Uniform) int {
	draw := u()
	for j, c := range row {
		if c > draw {
			return j
		}
	}
	return len(row) - 1
}

// RowCumulative returns the row-wise cumulative sum of m, normalized so the
// last entry is exactly 1 (defensive against floating point drift).
func RowCumulative(m *linalg.Matrix) *linalg.Matrix {
	rows, cols := m.Dims()
	out := linalg.Zeros(rows, cols)
	for i := 0; i < rows; i++ {
		total := 0.0
		for j := 0; j < cols; j++ {
			total += m.At(i, j)
			out.Set(i, j, total)
		}
		if total > 0 {
			for j := 0; j < cols; j++ {
				out.Set(i, j, out.At(i, j)/total)
			}
		}
	}
	return out
}
