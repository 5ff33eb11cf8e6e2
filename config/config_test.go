package config

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"stochproc/kernel"
	"stochproc/linalg"
)

func TestResolveAlphaProducesErgodicChain(t *testing.T) {
	Convey("Given alpha amplitudes for a 3-state chain", t, func() {
		in := Input{
			Alpha: []float64{1, 1, 1},
		}
		Convey("Resolve builds a row-stochastic P with recurrence/absorption solved", func() {
			r, err := Resolve(in)
			So(err, ShouldBeNil)
			So(r.K, ShouldEqual, 3)
			So(r.Ergodic, ShouldBeTrue)
			So(len(r.EqP), ShouldEqual, 3)
			total := 0.0
			for _, p := range r.EqP {
				total += p
			}
			So(total, ShouldAlmostEqual, 1.0, 1e-6)
		})
	})
}

func TestResolveMarkovDenseValidatesRowSums(t *testing.T) {
	Convey("Given a dense matrix whose rows don't sum to 1", t, func() {
		bad := linalg.NewMatrix(2, 2, []float64{0.5, 0.6, 0.5, 0.5})
		in := Input{MarkovDense: bad}
		Convey("Resolve rejects it with a ConfigError", func() {
			_, err := Resolve(in)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestResolveSparseMarkovClosesRows(t *testing.T) {
	Convey("Given a sparse transition dict over a 2x2 grid", t, func() {
		in := Input{
			MarkovSparse: &SparseMarkovInput{
				States: 4,
				Dims:   []int{2, 2},
				Rows: map[string]map[string]float64{
					"0,0": {"1,0": 0.3, "0,1": 0.2},
				},
			},
		}
		Convey("Resolve closes the row and solves recurrence", func() {
			r, err := Resolve(in)
			So(err, ShouldBeNil)
			So(r.K, ShouldEqual, 4)
			So(r.P.At(0, 0), ShouldAlmostEqual, 0.5, 1e-9)
		})
	})
}

func TestResolveBayesBuildsNet(t *testing.T) {
	Convey("Given a bayes selector carrying its own alpha-derived proposal table", t, func() {
		in := Input{
			Bayes: &BayesInput{Net: []int{0, 1, 2}, Alpha: []float64{1, 1, 1}},
		}
		Convey("Resolve chooses KindBayes and allocates a BayesNet sized to K", func() {
			r, err := Resolve(in)
			So(err, ShouldBeNil)
			So(r.Kind, ShouldEqual, kernel.KindBayes)
			So(r.K, ShouldEqual, 3)
			So(r.CumP, ShouldNotBeNil)
			So(len(r.EqP), ShouldEqual, 3)
			So(r.BayesNet, ShouldNotBeNil)
			So(len(r.BayesNet.Net), ShouldEqual, 3)
		})
	})
}

func TestResolveBayesWithoutTableFails(t *testing.T) {
	Convey("Given a bayes selector with no proposal table field set", t, func() {
		in := Input{Bayes: &BayesInput{Net: []int{0, 1}}}
		Convey("Resolve rejects it with a ConfigError", func() {
			_, err := Resolve(in)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestResolveGillespieRatesDeriveTransitions(t *testing.T) {
	Convey("Given an off-diagonal jump-rate matrix", t, func() {
		a := linalg.NewMatrix(2, 2, []float64{0, 2, 1, 0})
		in := Input{GillespieRates: a}
		Convey("Resolve normalizes it into a row-stochastic P", func() {
			r, err := Resolve(in)
			So(err, ShouldBeNil)
			So(r.P.At(0, 1), ShouldAlmostEqual, 1.0, 1e-9)
			So(r.P.At(1, 0), ShouldAlmostEqual, 1.0, 1e-9)
		})
	})
}

func TestResolveOrnsteinDerivesAmplitude(t *testing.T) {
	Convey("Given theta and sigma", t, func() {
		in := Input{Ornstein: &OrnsteinInput{Theta: 2, Sigma: 4}}
		Convey("Resolve sets A = sigma/sqrt(2 theta)", func() {
			r, err := Resolve(in)
			So(err, ShouldBeNil)
			So(r.OrnsteinKernel.A, ShouldAlmostEqual, 4/2.0, 1e-9)
		})
	})
}

func TestResolveEmissionBuildsSamplers(t *testing.T) {
	Convey("Given an alpha chain with a grid emission spec", t, func() {
		in := Input{
			Alpha:      []float64{1, 1, 1},
			EmP:        &EmissionSpec{Dims: []int{3}, Weights: []float64{1}},
			RandSource: rand.New(rand.NewSource(7)),
		}
		Convey("Resolve produces one sampler per grid state", func() {
			r, err := Resolve(in)
			So(err, ShouldBeNil)
			So(len(r.EmissionGen), ShouldEqual, 3)
			for _, s := range r.EmissionGen {
				So(s, ShouldNotBeNil)
			}
		})
	})
}
