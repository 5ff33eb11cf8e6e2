package kernel

import "math"

// Ornstein is the stateless Ornstein-Uhlenbeck walk generator: it
// re-samples a running Wiener walk history at an exponentially-warped
// time index and damps it by e^{-theta*t}.
type Ornstein struct {
	Theta float64 // mean-reversion rate
	A     float64 // sigma / sqrt(2*theta)
}

func (Ornstein) Kind() Kind { return KindOrnstein }

// Step appends currentUW0 (the driving Wiener walk's current value) to
// history, then returns a * e^{-theta*t} * W_t where W_t is the history
// entry at floor(e^{2*theta*t} - 1), or 0 if that index is out of range.
func (o Ornstein) Step(history *[]float64, currentUW0 float64, t float64) float64 {
	idx := int(math.Floor(math.Exp(2*o.Theta*t) - 1))
	var wt float64
	if idx >= 0 && idx < len(*history) {
		wt = (*history)[idx]
	}
	*history = append(*history, currentUW0)
	return o.A * math.Exp(-o.Theta*t) * wt
}
