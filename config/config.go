// Package config implements the configuration resolver: it normalizes
// any of the accepted process-selector inputs (alpha amplitudes,
// upper-triangular probabilities, dense or sparse transition matrices,
// Bayesian-network, Gillespie rates, Gaussian/Wiener/Ornstein parameters)
// into the canonical internal shape the rest of the engine consumes: K, P,
// cumP, RT, ab, eqP, symbols, corrMap, and emission generators.
package config

import (
	"math"
	"math/rand"

	"stochproc/absorption"
	"stochproc/emission"
	"stochproc/kernel"
	"stochproc/linalg"
	"stochproc/numeric"
	"stochproc/recurrence"
)

const rowSumTol = 1e-3

// Input collects every accepted configuration option. Exactly
// one process-selector field should be set; Resolve treats that as the
// tagged-union discriminant.
type Input struct {
	N        int
	Steps    int
	Dt       float64
	CTMode   bool
	Batch    int
	SymbolsV interface{} // K | map[string]int | []string, see ResolveSymbols

	// Process selector - exactly one of the following should be non-nil/non-zero.
	Alpha           []float64
	TriangleP       []float64
	MarkovDense     *linalg.Matrix
	MarkovSparse    *SparseMarkovInput
	Bayes           *BayesInput
	GillespieStates int
	GillespieRates  *linalg.Matrix // K x K off-diagonal jump rates, selects the gillespie kernel

	// Rates is the optional general jump-rate matrix A: used by the ensemble
	// stepper to draw continuous-time holding times regardless of which
	// categorical kernel is active. When absent (and no GillespieRates is
	// given), continuous-time mode degrades holding time to 0.
	Rates *linalg.Matrix
	Gauss           *GaussInput
	Wiener          *WienerInput
	Ornstein        *OrnsteinInput

	EmP *EmissionSpec

	RandSource *rand.Rand
}

// SparseMarkovInput is the sparse transition-dict process selector.
type SparseMarkovInput struct {
	States int
	Dims   []int
	Rows   map[string]map[string]float64
}

// BayesInput selects the Bayesian-network process: exactly one of the
// table fields below supplies the Metropolis-Hastings proposal table,
// plus a parent set per node for the Dirichlet conditional tables.
type BayesInput struct {
	Net []int

	// Proposal table - exactly one of the following should be set.
	Alpha        []float64
	TriangleP    []float64
	MarkovDense  *linalg.Matrix
	MarkovSparse *SparseMarkovInput
}

// GaussInput is the Karhunen-Loeve Gaussian generator's configuration surface.
type GaussInput struct {
	Values  []float64
	Vectors [][]float64
	Ref     float64
	Dim     int
	Mean    float64
}

// WienerInput is the Wiener (Brownian) walk's configuration surface.
type WienerInput struct {
	StepsPerUnitTime float64
}

// OrnsteinInput is the Ornstein-Uhlenbeck walk's configuration surface.
type OrnsteinInput struct {
	Theta float64
	Sigma float64
}

// Resolved is the canonical internal shape produced by Resolve.
type Resolved struct {
	Kind kernel.Kind
	K    int // 0 for stateless processes

	P       *linalg.Matrix
	CumP    *linalg.Matrix
	RT      *linalg.Matrix
	A       *linalg.Matrix
	EqP     []float64
	Ergodic bool
	Ab      absorption.Result

	Symbols Symbols
	CorrMap []int

	BayesNet *BayesNet

	GaussKernel    kernel.Gauss
	WienerKernel   kernel.Wiener
	OrnsteinKernel kernel.Ornstein

	EmissionMu    [][]float64
	EmissionSigma [][][]float64
	EmissionGen   []emission.Sampler

	N      int
	Steps  int
	Dt     float64
	CTMode bool
	Batch  int
}

// Resolve normalizes raw Input into a Resolved configuration, or a
// *ConfigError if the input is inconsistent.
func Resolve(in Input) (*Resolved, error) {
	r := &Resolved{
		N:      in.N,
		Steps:  in.Steps,
		Dt:     in.Dt,
		CTMode: in.CTMode,
		Batch:  in.Batch,
	}

	rng := in.RandSource
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	selectors := 0
	for _, set := range []bool{
		in.Alpha != nil, in.TriangleP != nil, in.MarkovDense != nil, in.MarkovSparse != nil,
		in.Bayes != nil, in.GillespieStates > 0 || in.GillespieRates != nil,
		in.Gauss != nil, in.Wiener != nil, in.Ornstein != nil,
	} {
		if set {
			selectors++
		}
	}
	if selectors > 1 {
		return nil, newConfigError("%d process selectors supplied, want exactly one", selectors)
	}

	switch {
	case in.Alpha != nil:
		p, err := BuildFromAlpha(in.Alpha)
		if err != nil {
			return nil, err
		}
		r.Kind = kernel.KindMarkov
		r.P = p
	case in.TriangleP != nil:
		p, err := BuildFromUpperTriangle(in.TriangleP)
		if err != nil {
			return nil, err
		}
		r.Kind = kernel.KindMarkov
		r.P = p
	case in.MarkovDense != nil:
		r.Kind = kernel.KindMarkov
		r.P = in.MarkovDense
	case in.MarkovSparse != nil:
		p, err := BuildSparseMarkov(in.MarkovSparse.States, in.MarkovSparse.Dims, in.MarkovSparse.Rows)
		if err != nil {
			return nil, err
		}
		r.Kind = kernel.KindMarkov
		r.P = p
	case in.Bayes != nil:
		p, err := resolveBayesTable(in.Bayes)
		if err != nil {
			return nil, err
		}
		r.Kind = kernel.KindBayes
		r.P = p
	case in.GillespieStates > 0 || in.GillespieRates != nil:
		r.Kind = kernel.KindGillespie
		if in.GillespieRates != nil {
			r.P = ratesToTransitions(in.GillespieRates)
		}
	case in.Gauss != nil:
		r.Kind = kernel.KindGauss
		r.GaussKernel = kernel.Gauss{
			Values:  in.Gauss.Values,
			Vectors: in.Gauss.Vectors,
			Ref:     in.Gauss.Ref,
			Dim:     in.Gauss.Dim,
			Mean:    in.Gauss.Mean,
			Dt:      in.Dt,
		}
	case in.Wiener != nil:
		r.Kind = kernel.KindWiener
		r.WienerKernel = kernel.Wiener{StepsPerUnitTime: in.Wiener.StepsPerUnitTime}
	case in.Ornstein != nil:
		r.Kind = kernel.KindOrnstein
		theta := in.Ornstein.Theta
		denom := math.Sqrt(2 * theta)
		if denom == 0 {
			denom = 1
		}
		r.OrnsteinKernel = kernel.Ornstein{
			Theta: theta,
			A:     in.Ornstein.Sigma / denom,
		}
	default:
		return nil, newConfigError("no process selector supplied")
	}

	if r.P != nil {
		if err := validateRowSums(r.P); err != nil {
			return nil, err
		}
		r.K = rows(r.P)
		r.CumP = kernel.RowCumulative(r.P)
		res := recurrence.Solve(r.P)
		r.EqP = res.EqP
		r.Ergodic = res.Ergodic
		r.RT = res.H
		r.Ab = absorption.Solve(r.P)
		r.CorrMap = BuildCorrMap(r.K)
	}

	if in.Rates != nil {
		r.A = in.Rates
	} else if in.GillespieRates != nil {
		r.A = in.GillespieRates
	}

	if r.Kind.Stateless() || r.K > 0 {
		symK := r.K
		symbols, err := ResolveSymbols(symK, in.SymbolsV)
		if err != nil {
			return nil, err
		}
		r.Symbols = symbols
	}

	if in.Bayes != nil && r.K > 0 {
		r.BayesNet = NewBayesNet(r.K, buildParentSets(in.Bayes.Net, r.K))
	}

	if in.EmP != nil {
		dims := in.EmP.Dims
		if len(dims) == 0 && r.K > 0 {
			dims = []int{r.K}
		}
		grid := numeric.Permutations(dims)
		mu, sigma := in.EmP.Resolve(grid, rng)
		r.EmissionMu = mu
		r.EmissionSigma = sigma
		r.EmissionGen = make([]emission.Sampler, len(grid))
		for k := range grid {
			s, err := emission.NewMVN(mu[k], sigma[k], rng)
			if err != nil {
				return nil, newConfigError("emission state %d: %v", k, err)
			}
			r.EmissionGen[k] = s
		}
	}

	return r, nil
}

func rows(m *linalg.Matrix) int {
	r, _ := m.Dims()
	return r
}

func validateRowSums(p *linalg.Matrix) error {
	k, _ := p.Dims()
	for i := 0; i < k; i++ {
		total := 0.0
		for j := 0; j < k; j++ {
			total += p.At(i, j)
		}
		if absF(total-1) > rowSumTol {
			return newConfigError("row %d sums to %f, want 1 +/- %g", i, total, rowSumTol)
		}
	}
	return nil
}

// ratesToTransitions derives a row-stochastic transition matrix from an
// off-diagonal jump-rate matrix A, normalizing each row's off-diagonal
// rates to sum to 1 and closing the diagonal.
func ratesToTransitions(a *linalg.Matrix) *linalg.Matrix {
	k, _ := a.Dims()
	p := linalg.Zeros(k, k)
	for i := 0; i < k; i++ {
		total := 0.0
		for j := 0; j < k; j++ {
			if j != i {
				total += a.At(i, j)
			}
		}
		if total == 0 {
			p.Set(i, i, 1)
			continue
		}
		rowTotal := 0.0
		for j := 0; j < k; j++ {
			if j != i {
				v := a.At(i, j) / total
				p.Set(i, j, v)
				rowTotal += v
			}
		}
		p.Set(i, i, 1-rowTotal)
	}
	return p
}

// resolveBayesTable builds the Metropolis-Hastings proposal table from
// whichever of BayesInput's table fields is set, the same way Resolve's
// own switch builds P for the plain categorical selectors.
func resolveBayesTable(b *BayesInput) (*linalg.Matrix, error) {
	switch {
	case b.Alpha != nil:
		return BuildFromAlpha(b.Alpha)
	case b.TriangleP != nil:
		return BuildFromUpperTriangle(b.TriangleP)
	case b.MarkovDense != nil:
		return b.MarkovDense, nil
	case b.MarkovSparse != nil:
		return BuildSparseMarkov(b.MarkovSparse.States, b.MarkovSparse.Dims, b.MarkovSparse.Rows)
	default:
		return nil, newConfigError("bayes requires one of alpha, triangleP, markovDense, markovSparse")
	}
}

func buildParentSets(flat []int, k int) [][]int {
	net := make([][]int, k)
	for n := range net {
		if n < len(flat) {
			net[n] = []int{flat[n] % k}
		}
	}
	return net
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
