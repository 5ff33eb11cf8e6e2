package ensemble

import (
	"stochproc/numeric"
)

// StepGenerative advances the engine by one time step in generative mode
// and returns the events produced, in emission order.
func (e *Engine) StepGenerative() []Event {
	var events []Event
	if e.cfg.Kind.Stateless() {
		events = e.stepGenerativeStateless()
	} else {
		events = e.stepGenerativeCategorical()
	}

	events = append(events, Event{Kind: EventStep, T: e.t, At: e.s, Gamma: e.lastGamma(), Walk: e.lastWalk()})
	e.t += e.dt
	e.s++
	return events
}

func (e *Engine) lastGamma() float64 {
	if len(e.gamma) == 0 {
		return 0
	}
	return e.gamma[len(e.gamma)-1]
}

func (e *Engine) lastWalk() float64 {
	if e.cfg.Kind.Stateless() && len(e.uval) > 0 {
		return e.uval[0]
	}
	return 0
}

func (e *Engine) stepGenerativeCategorical() []Event {
	gammaVal := e.statCorr()
	e.gamma = append(e.gamma, gammaVal)

	copy(e.u1, e.u)

	var jumps []Event
	for m := 0; m < e.n; m++ {
		from := e.u[m]
		to := e.categorical.Next(from, e.s, e.uniform)
		if from != to {
			held := e.t - e.uh[m]
			hold := 0.0
			if e.cfg.CTMode {
				hold = e.holdDraw(from, to)
			}
			e.cumH[from][to] += held
			e.cumN[from][to] += 1
			e.n1[from][to]++
			if e.cfg.RT != nil {
				e.cfg.RT.Set(from, from, hold)
			}
			e.u[m] = to
			e.uk[m]++
			e.uh[m] = e.t + hold

			var obs []float64
			if to < len(e.cfg.EmissionGen) && e.cfg.EmissionGen[to] != nil {
				obs = e.cfg.EmissionGen[to].Sample()
				e.obsList = append(e.obsList, obs)
			}
			jumps = append(jumps, Event{Kind: EventJump, T: e.t, At: e.s, Index: m, State: to, Hold: hold, Obs: obs})
		}
	}

	for m := 0; m < e.n; m++ {
		e.n0[e.u0[m]][e.u[m]]++
		e.un[m][e.u[m]]++
	}

	if e.cfg.BayesNet != nil {
		state := e.u
		for node := range e.cfg.BayesNet.Net {
			parentIdx := e.cfg.BayesNet.ParentConfigIndex(node, state)
			e.cfg.BayesNet.Update(node, parentIdx, state[node], 1)
		}
	}

	return jumps
}

// holdDraw samples a continuous-time holding duration from the general
// jump-rate matrix A; if none was supplied, or the rate for (from, to) is
// not positive, the hold is zero.
func (e *Engine) holdDraw(from, to int) float64 {
	if e.cfg.A == nil {
		return 0
	}
	rate := e.cfg.A.At(from, to)
	if rate <= 0 {
		return 0
	}
	return numeric.ExpDev(1/rate, e.uniform)
}

func (e *Engine) stepGenerativeStateless() []Event {
	switch {
	case e.gauss != nil:
		for m := 0; m < e.n; m++ {
			v := e.gauss.Sample(e.s, e.uniform)
			e.uval[m] = v
			e.uk[m] += v
		}
	case e.wiener != nil:
		for m := 0; m < e.n; m++ {
			uw, walks, val := e.wiener.Step(e.uwalk[m], e.walksDone[m], e.t, e.normal)
			e.uwalk[m] = uw
			e.walksDone[m] = walks
			e.uval[m] = val
			e.uk[m] += val
		}
	case e.ornstein != nil:
		for m := 0; m < e.n; m++ {
			v := e.ornstein.Step(&e.ooHistory[m], e.uwalk[m], e.t)
			e.uval[m] = v
			e.uk[m] += v
		}
	}
	return nil
}

// statCorr computes the current-step autocorrelation value from the
// from-initial-to-current transition counts N0, then advances the running
// sample count.
func (e *Engine) statCorr() float64 {
	if e.samples == 0 {
		e.samples += float64(e.n)
		return 1
	}
	cor := 0.0
	corrMap := e.cfg.CorrMap
	for i := 0; i < e.k; i++ {
		for j := 0; j < e.k; j++ {
			cor += float64(corrMap[i]) * float64(corrMap[j]) * (e.n0[i][j] / e.samples)
		}
	}
	e.samples += float64(e.n)
	return cor
}
