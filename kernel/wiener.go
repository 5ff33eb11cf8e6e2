package kernel

import "math"

// Wiener is the stateless Brownian-walk generator.
// Each member accumulates i.i.d. N(0,1) increments at a fixed sub-step rate
// M = StepsPerUnitTime, and its reported value is the accumulator scaled by
// 1/sqrt(M).
type Wiener struct {
	StepsPerUnitTime float64 // M
}

func (Wiener) Kind() Kind { return KindWiener }

// Step advances a member's Wiener accumulator uw, which has previously
// received lastWalks elementary increments, to the elementary-step count
// implied by time t (walks = floor(M*t)), drawing one N(0,1) increment per
// new elementary step. It returns the updated accumulator, the new
// elementary-step count, and the member's reported value UW/sqrt(M).
func (w Wiener) Step(uw float64, lastWalks int, t float64, normal Normal) (newUW float64, newWalks int, value float64) {
	walks := int(math.Floor(w.StepsPerUnitTime * t))
	for i := lastWalks; i < walks; i++ {
		uw += normal()
	}
	value = uw / math.Sqrt(w.StepsPerUnitTime)
	return uw, walks, value
}
