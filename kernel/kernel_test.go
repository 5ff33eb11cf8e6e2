package kernel

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"stochproc/linalg"
)

func TestMarkovNextRespectsCumulative(t *testing.T) {
	Convey("Given a two-state symmetric chain p=0.5", t, func() {
		cumP := RowCumulative(linalg.NewMatrix(2, 2, []float64{0.5, 0.5, 0.5, 0.5}))
		m := Markov{CumP: cumP}
		Convey("Next recovers the empirical probability within tolerance (P7-style)", func() {
			rng := rand.New(rand.NewSource(42))
			u := func() float64 { return rng.Float64() }
			n, trials := 0, 200000
			for i := 0; i < trials; i++ {
				if m.Next(0, 0, u) == 1 {
					n++
				}
			}
			p := float64(n) / float64(trials)
			So(p, ShouldAlmostEqual, 0.5, 0.01)
		})
	})
}

func TestGillespieAvoidsSelfTransition(t *testing.T) {
	Convey("Given a holding-time table", t, func() {
		rt := linalg.NewMatrix(3, 3, []float64{
			1, 2, 3,
			4, 1, 2,
			1, 5, 1,
		})
		g := Gillespie{RT: rt}
		Convey("Next never returns the origin state", func() {
			rng := rand.New(rand.NewSource(7))
			u := func() float64 { return rng.Float64() }
			for i := 0; i < 1000; i++ {
				to := g.Next(0, 0, u)
				So(to, ShouldNotEqual, 0)
			}
		})
	})
}

func TestWienerAccumulatesOnlyNewSteps(t *testing.T) {
	Convey("Given a Wiener kernel with M=2", t, func() {
		w := Wiener{StepsPerUnitTime: 2}
		calls := 0
		normal := func() float64 { calls++; return 1.0 }
		Convey("Step adds exactly the newly-elapsed elementary increments", func() {
			uw, walks, value := w.Step(0, 0, 1.0, normal) // walks = floor(2*1) = 2
			So(walks, ShouldEqual, 2)
			So(calls, ShouldEqual, 2)
			So(uw, ShouldEqual, 2.0)
			So(value, ShouldAlmostEqual, 2.0/1.4142135623730951, 1e-9)

			uw2, walks2, _ := w.Step(uw, walks, 1.0, normal) // no new elapsed steps
			So(walks2, ShouldEqual, 2)
			So(uw2, ShouldEqual, uw)
			So(calls, ShouldEqual, 2)
		})
	})
}

func TestBayesAcceptsProposalWhenAcceptanceRatioIsOne(t *testing.T) {
	Convey("Given a symmetric two-state proposal table with equal stationary weights", t, func() {
		p := linalg.NewMatrix(2, 2, []float64{0.5, 0.5, 0.5, 0.5})
		b := Bayes{CumP: RowCumulative(p), P: p, Pi: []float64{0.5, 0.5}}
		Convey("Next always moves to the proposed state", func() {
			draws := []float64{0.6, 0.1} // proposal draw picks state 1, acceptance draw accepts
			i := 0
			u := func() float64 { v := draws[i]; i++; return v }
			So(b.Next(0, 0, u), ShouldEqual, 1)
		})
	})
}

func TestBayesRejectsProposalFallsBackToOrigin(t *testing.T) {
	Convey("Given stationary weights that disfavor the proposed state", t, func() {
		p := linalg.NewMatrix(2, 2, []float64{0.5, 0.5, 0.5, 0.5})
		b := Bayes{CumP: RowCumulative(p), P: p, Pi: []float64{0.9, 0.1}}
		Convey("Next rejects a draw above the acceptance ratio and stays put", func() {
			// alpha = (0.1/0.9) * (0.5/0.5) ~= 0.111
			draws := []float64{0.6, 0.5} // proposal picks state 1, acceptance draw 0.5 > alpha
			i := 0
			u := func() float64 { v := draws[i]; i++; return v }
			So(b.Next(0, 0, u), ShouldEqual, 0)
		})
	})
}

func TestOrnsteinOutOfRangeHistoryYieldsZero(t *testing.T) {
	Convey("Given an empty walk history", t, func() {
		o := Ornstein{Theta: 0.5, A: 1.0}
		history := []float64{}
		Convey("Step returns zero and records the pushed value", func() {
			v := o.Step(&history, 3.0, 0.0)
			So(v, ShouldEqual, 0.0)
			So(history, ShouldResemble, []float64{3.0})
		})
	})
}
