// Package stats implements the batch statistics and maximum-likelihood
// estimators derived from an ensemble engine's accumulators: coherence
// time, relative error against a declared P, holding-time and
// transition-probability MLEs, and the end-of-run summary.
package stats

import (
	"math"

	"stochproc/config"
	"stochproc/emission"
	"stochproc/ensemble"
)

// CoherenceTime computes Tc = (dt/(2*gamma[0])) * sum_{tau=0..T-1} |gamma[tau]| * (1 - tau/T).
func CoherenceTime(gamma []float64, dt float64) float64 {
	t := len(gamma)
	if t == 0 || gamma[0] == 0 {
		return 0
	}
	sum := 0.0
	for tau, g := range gamma {
		sum += math.Abs(g) * (1 - float64(tau)/float64(t))
	}
	return (dt / (2 * gamma[0])) * sum
}

// HoldingTimeMLE computes Rmle[i][j] = cumH[i][j]/cumN[i][j] off-diagonal,
// 0 on the diagonal and wherever cumN is 0: a cell with no observations
// would otherwise divide by zero, so it is reported as 0 instead.
func HoldingTimeMLE(cumH, cumN [][]float64) [][]float64 {
	k := len(cumH)
	out := make([][]float64, k)
	for i := range out {
		out[i] = make([]float64, k)
		for j := range out[i] {
			if i == j || cumN[i][j] == 0 {
				continue
			}
			out[i][j] = cumH[i][j] / cumN[i][j]
		}
	}
	return out
}

// TransitionProbMLE computes mleA[i][j] = N1[i][j] / sum_k N1[i][k].
func TransitionProbMLE(n1 [][]float64) [][]float64 {
	k := len(n1)
	out := make([][]float64, k)
	for i := range out {
		out[i] = make([]float64, k)
		total := 0.0
		for _, v := range n1[i] {
			total += v
		}
		if total == 0 {
			continue
		}
		for j := range out[i] {
			out[i][j] = n1[i][j] / total
		}
	}
	return out
}

// RelativeError computes |mleA[0][0] - P[0][0]| / P[0][0] when a declared
// P exists; returns 0 if P[0][0] is 0 or P is absent.
func RelativeError(mleA [][]float64, p *config.Resolved) float64 {
	if p == nil || p.P == nil {
		return 0
	}
	p00 := p.P.At(0, 0)
	if p00 == 0 {
		return 0
	}
	return math.Abs(mleA[0][0]-p00) / p00
}

// Summary holds the end-of-run aggregate quantities.
type Summary struct {
	Kbar  float64
	M     float64
	Delta float64
	SNR   float64
	MeanIntensity float64
}

// EndOfRun computes Kbar = mean(UK), M = T/Tc, delta = Kbar/M,
// SNR = sqrt(Kbar/(1+delta)), mean_intensity = Kbar/T.
func EndOfRun(uk []float64, totalTime, tc float64) Summary {
	kbar := mean(uk)
	m := 0.0
	if tc != 0 {
		m = totalTime / tc
	}
	delta := 0.0
	if m != 0 {
		delta = kbar / m
	}
	snr := 0.0
	if 1+delta != 0 {
		snr = math.Sqrt(kbar / (1 + delta))
	}
	meanIntensity := 0.0
	if totalTime != 0 {
		meanIntensity = kbar / totalTime
	}
	return Summary{Kbar: kbar, M: m, Delta: delta, SNR: snr, MeanIntensity: meanIntensity}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total / float64(len(xs))
}

// EmissionMLE invokes the external Gaussian-mixture EM collaborator on the
// accumulated observation list with k components.
func EmissionMLE(em emission.EM, observations [][]float64, k int) ([]emission.Component, error) {
	if len(observations) == 0 {
		return nil, nil
	}
	return em.Fit(observations, k)
}

// Batch assembles the batch/end statistics payload from a running engine
// and an optional declared configuration (for relative error), matching
// ensemble.Summary's field layout so the pipeline driver can attach it to
// an outgoing event.
func Batch(e *ensemble.Engine, cfg *config.Resolved, em emission.EM) *ensemble.Summary {
	mleA := TransitionProbMLE(e.N1())
	mleR := HoldingTimeMLE(e.CumH(), e.CumN())
	relErr := RelativeError(mleA, cfg)
	countFreq := e.CountFreq()

	var mleEmissionEvents []interface{}
	if em != nil && cfg != nil && len(e.ObsList()) > 0 {
		comps, err := EmissionMLE(em, e.ObsList(), cfg.K)
		if err == nil {
			for _, c := range comps {
				mleEmissionEvents = append(mleEmissionEvents, c)
			}
		}
	}

	tc := CoherenceTime(e.Gamma(), cfgDt(cfg))
	eor := EndOfRun(e.UK(), float64(e.Step())*cfgDt(cfg), tc)

	return &ensemble.Summary{
		CountFreq:          countFreq,
		RelError:           relErr,
		MLEEmissionEvents:  mleEmissionEvents,
		MLETransitionProb:  mleA,
		StatCorr:           lastOrZero(e.Gamma()),
		MLEHoldingTimes:    mleR,
		TrCounts:           e.N1(),
		MeanCount:          eor.Kbar,
		CoherenceTime:      tc,
		CoherenceIntervals: eor.M,
		Correlation0Lag:    firstOrZero(e.Gamma()),
		MeanIntensity:      eor.MeanIntensity,
		DegeneracyParam:    eor.Delta,
		SNR:                eor.SNR,
	}
}

func cfgDt(cfg *config.Resolved) float64 {
	if cfg == nil {
		return 1
	}
	return cfg.Dt
}

func lastOrZero(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return xs[len(xs)-1]
}

func firstOrZero(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return xs[0]
}
