package ensemble

import (
	"stochproc/config"
	"stochproc/kernel"
	"stochproc/numeric"
)

// Engine owns every per-member and per-(from,to) accumulator for one
// configured process and advances them one time step at a time. It is not
// safe for concurrent use by more than one goroutine: it is stepped by a
// single cooperative thread per instance.
type Engine struct {
	cfg *config.Resolved

	categorical kernel.Categorical
	gauss       *kernel.Gauss
	wiener      *kernel.Wiener
	ornstein    *kernel.Ornstein

	uniform kernel.Uniform
	normal  kernel.Normal

	k int
	n int

	// categorical member state
	u, u0, u1 []int
	uh        []float64
	uk        []float64
	un        [][]float64 // n x k occupation counts

	// stateless member state
	uval      []float64   // reported value (gauss intensity, ornstein output)
	uwalk     []float64   // wiener accumulator per member
	walksDone []int       // last wiener elementary-step count per member
	ooHistory [][]float64 // per-member ornstein walk history

	n0, n1, cumH, cumN [][]float64 // k x k

	gamma   []float64
	samples float64

	obsList [][]float64

	t  float64
	s  int
	dt float64
}

// New constructs an Engine from a resolved configuration and the process's
// shared uniform and normal random sources. Determinism requires the host
// to seed and serialize access to those sources.
func New(cfg *config.Resolved, uniform kernel.Uniform, normal kernel.Normal) *Engine {
	e := &Engine{
		cfg:     cfg,
		uniform: uniform,
		normal:  normal,
		k:       cfg.K,
		n:       cfg.N,
		dt:      cfg.Dt,
	}

	if cfg.Kind.Stateless() {
		e.uval = make([]float64, e.n)
		e.uk = make([]float64, e.n)
		switch cfg.Kind {
		case kernel.KindGauss:
			g := cfg.GaussKernel
			e.gauss = &g
		case kernel.KindWiener:
			w := cfg.WienerKernel
			e.wiener = &w
			e.uwalk = make([]float64, e.n)
			e.walksDone = make([]int, e.n)
		case kernel.KindOrnstein:
			o := cfg.OrnsteinKernel
			e.ornstein = &o
			e.uwalk = make([]float64, e.n)
			e.ooHistory = make([][]float64, e.n)
		}
		return e
	}

	e.categorical = buildCategorical(cfg)
	e.u = make([]int, e.n)
	e.u0 = make([]int, e.n)
	e.u1 = make([]int, e.n)
	e.uh = make([]float64, e.n)
	e.uk = make([]float64, e.n)
	e.un = make([][]float64, e.n)
	for i := range e.un {
		e.un[i] = make([]float64, e.k)
	}
	e.n0 = zeros(e.k)
	e.n1 = zeros(e.k)
	e.cumH = zeros(e.k)
	e.cumN = zeros(e.k)
	if cfg.Steps > 0 {
		e.gamma = make([]float64, 0, cfg.Steps)
	}
	return e
}

func zeros(k int) [][]float64 {
	m := make([][]float64, k)
	for i := range m {
		m[i] = make([]float64, k)
	}
	return m
}

// buildCategorical constructs the kernel.Categorical implementation
// selected by cfg.Kind, wired to the precomputed tables the configuration
// resolver produced.
func buildCategorical(cfg *config.Resolved) kernel.Categorical {
	switch cfg.Kind {
	case kernel.KindGillespie:
		rt := cfg.RT
		if cfg.A != nil {
			rt = cfg.A
		}
		return kernel.Gillespie{RT: rt}
	case kernel.KindBayes:
		return kernel.Bayes{CumP: cfg.CumP, P: cfg.P, Pi: cfg.EqP}
	default:
		return kernel.Markov{CumP: cfg.CumP}
	}
}

// CountFreq returns F[m] = #{n : floor(UK[n]) = m}.
func (e *Engine) CountFreq() []int {
	maxUK := numeric.Max(e.uk)
	if maxUK < 0 {
		maxUK = 0
	}
	f := make([]int, int(maxUK)+1)
	for _, v := range e.uk {
		m := int(v)
		if m >= 0 && m < len(f) {
			f[m]++
		}
	}
	return f
}

// UK returns a copy of the per-member accumulated jump count / value.
func (e *Engine) UK() []float64 {
	out := make([]float64, len(e.uk))
	copy(out, e.uk)
	return out
}

// K returns the configured state count (0 for stateless processes).
func (e *Engine) K() int { return e.k }

// Step returns the current step counter s.
func (e *Engine) Step() int { return e.s }

// Time returns the current simulation time t.
func (e *Engine) Time() float64 { return e.t }

// CumN, CumH, N1 expose the raw per-(from,to) accumulators to the stats
// package's MLE estimators.
func (e *Engine) CumN() [][]float64 { return e.cumN }
func (e *Engine) CumH() [][]float64 { return e.cumH }
func (e *Engine) N1() [][]float64   { return e.n1 }
func (e *Engine) N0() [][]float64   { return e.n0 }
func (e *Engine) Gamma() []float64  { return e.gamma }
func (e *Engine) ObsList() [][]float64 { return e.obsList }
