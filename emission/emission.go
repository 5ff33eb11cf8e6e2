// Package emission provides the two collaborators the rest of the engine
// needs but does not implement itself: a Gaussian-mixture EM routine and a
// multivariate-normal sampler. Both interfaces have a default adapter (the
// sampler is gonum-backed; the EM routine is plain Go) so the rest of the
// engine (config, ensemble, stats) has something concrete to call; either
// can be swapped for a different
// implementation without touching the engine core.
package emission

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Component is one mixture component returned by EM: a weight, a mean
// vector, and a covariance matrix.
type Component struct {
	Weight float64
	Mu     []float64
	Sigma  [][]float64
}

// EM is the external Gaussian-mixture-EM collaborator: given a list of
// observation vectors and a target component count k, it returns the fitted
// mixture components.
type EM interface {
	Fit(observations [][]float64, k int) ([]Component, error)
}

// Sampler is the external multivariate-normal-sampler collaborator
// (emP.gen[k]): Sample draws one observation vector.
type Sampler interface {
	Sample() []float64
}

// MVN adapts gonum's distmv.Normal as the Sampler collaborator.
type MVN struct {
	dist *distmv.Normal
}

// NewMVN builds a Sampler for mean mu and covariance sigma (row-major,
// dims(mu) x dims(mu)), drawing from the given *rand.Rand source.
func NewMVN(mu []float64, sigma [][]float64, src *rand.Rand) (*MVN, error) {
	n := len(mu)
	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			cov.SetSym(i, j, sigma[i][j])
		}
	}
	dist, ok := distmv.NewNormal(mu, cov, src)
	if !ok {
		return nil, fmt.Errorf("emission: covariance is not positive-definite")
	}
	return &MVN{dist: dist}, nil
}

// Sample draws one observation vector from the distribution.
func (m *MVN) Sample() []float64 {
	return m.dist.Rand(nil)
}

// GonumEM is the default EM adapter: an iterate-to-convergence weighted
// re-estimation of k diagonal-covariance Gaussian components, in the style
// of a Baum-Welch-like parametric re-estimation loop (grounded on
// mcastilho-go-summer's hmm_learn.go iterate-to-convergence estimator).
type GonumEM struct {
	MaxIters int
	Tol      float64
}

// Fit runs EM to convergence (or MaxIters) and returns the fitted mixture.
func (e GonumEM) Fit(observations [][]float64, k int) ([]Component, error) {
	if len(observations) == 0 || k <= 0 {
		return nil, fmt.Errorf("emission: need observations and k>0")
	}
	dim := len(observations[0])
	maxIters := e.MaxIters
	if maxIters <= 0 {
		maxIters = 50
	}
	tol := e.Tol
	if tol <= 0 {
		tol = 1e-6
	}

	comps := initComponents(observations, k, dim)
	prevLL := math.Inf(-1)

	resp := make([][]float64, len(observations))
	for i := range resp {
		resp[i] = make([]float64, k)
	}

	for iter := 0; iter < maxIters; iter++ {
		ll := eStep(observations, comps, resp)
		mStep(observations, resp, comps)
		if math.Abs(ll-prevLL) < tol {
			break
		}
		prevLL = ll
	}
	return comps, nil
}

func initComponents(observations [][]float64, k, dim int) []Component {
	comps := make([]Component, k)
	n := len(observations)
	for c := 0; c < k; c++ {
		mu := make([]float64, dim)
		idx := (c * n) / k
		copy(mu, observations[idx])
		sigma := make([][]float64, dim)
		for d := 0; d < dim; d++ {
			sigma[d] = make([]float64, dim)
			sigma[d][d] = 1.0
		}
		comps[c] = Component{Weight: 1.0 / float64(k), Mu: mu, Sigma: sigma}
	}
	return comps
}

func gaussianDensity(x []float64, mu []float64, sigma [][]float64) float64 {
	dim := len(x)
	detTerm := 1.0
	exponent := 0.0
	for d := 0; d < dim; d++ {
		v := sigma[d][d]
		if v <= 0 {
			v = 1e-9
		}
		detTerm *= v
		diff := x[d] - mu[d]
		exponent += (diff * diff) / v
	}
	norm := 1.0 / math.Sqrt(math.Pow(2*math.Pi, float64(dim))*detTerm)
	return norm * math.Exp(-0.5*exponent)
}

func eStep(observations [][]float64, comps []Component, resp [][]float64) float64 {
	ll := 0.0
	for i, x := range observations {
		total := 0.0
		for c, comp := range comps {
			p := comp.Weight * gaussianDensity(x, comp.Mu, comp.Sigma)
			resp[i][c] = p
			total += p
		}
		if total > 0 {
			for c := range comps {
				resp[i][c] /= total
			}
			ll += math.Log(total)
		}
	}
	return ll
}

func mStep(observations [][]float64, resp [][]float64, comps []Component) {
	n := len(observations)
	dim := len(comps[0].Mu)
	for c := range comps {
		nk := 0.0
		for i := range observations {
			nk += resp[i][c]
		}
		if nk <= 0 {
			continue
		}
		mu := make([]float64, dim)
		for i, x := range observations {
			w := resp[i][c]
			for d := 0; d < dim; d++ {
				mu[d] += w * x[d]
			}
		}
		for d := range mu {
			mu[d] /= nk
		}
		sigma := make([][]float64, dim)
		for d := range sigma {
			sigma[d] = make([]float64, dim)
		}
		for i, x := range observations {
			w := resp[i][c]
			for d := 0; d < dim; d++ {
				diff := x[d] - mu[d]
				sigma[d][d] += w * diff * diff
			}
		}
		for d := 0; d < dim; d++ {
			sigma[d][d] /= nk
			if sigma[d][d] < 1e-9 {
				sigma[d][d] = 1e-9
			}
		}
		comps[c].Mu = mu
		comps[c].Sigma = sigma
		comps[c].Weight = nk / float64(n)
	}
}
