package stats

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"stochproc/config"
	"stochproc/linalg"
)

func TestHoldingTimeMLEZerosEmptyCells(t *testing.T) {
	Convey("Given cumH/cumN with one empty off-diagonal cell", t, func() {
		cumH := [][]float64{{0, 10}, {6, 0}}
		cumN := [][]float64{{0, 5}, {0, 0}}
		Convey("HoldingTimeMLE divides where cumN>0 and zeros elsewhere", func() {
			r := HoldingTimeMLE(cumH, cumN)
			So(r[0][1], ShouldEqual, 2.0)
			So(r[1][0], ShouldEqual, 0.0)
			So(r[0][0], ShouldEqual, 0.0)
		})
	})
}

func TestTransitionProbMLENormalizesRows(t *testing.T) {
	Convey("Given raw transition counts", t, func() {
		n1 := [][]float64{{1, 9}, {1, 9}}
		Convey("TransitionProbMLE recovers mleA[0][1] close to 0.9", func() {
			mleA := TransitionProbMLE(n1)
			So(mleA[0][1], ShouldAlmostEqual, 0.9, 1e-9)
			So(mleA[1][0]+mleA[1][1], ShouldAlmostEqual, 1.0, 1e-9)
		})
	})
}

func TestRelativeErrorAgainstDeclaredP(t *testing.T) {
	Convey("Given a declared P and a recovered mleA", t, func() {
		p := linalg.NewMatrix(2, 2, []float64{0.1, 0.9, 0.1, 0.9})
		cfg := &config.Resolved{P: p}
		mleA := [][]float64{{0.12, 0.88}, {0.1, 0.9}}
		Convey("RelativeError matches |mleA[0][0]-P[0][0]|/P[0][0]", func() {
			err := RelativeError(mleA, cfg)
			So(err, ShouldAlmostEqual, 0.2, 1e-9)
		})
	})
}

func TestCoherenceTimePositiveForDecayingGamma(t *testing.T) {
	Convey("Given a decaying autocorrelation trace", t, func() {
		gamma := []float64{1, 0.5, 0.25, 0.1, 0.05}
		Convey("CoherenceTime is positive", func() {
			tc := CoherenceTime(gamma, 1.0)
			So(tc, ShouldBeGreaterThan, 0)
		})
	})
}

func TestEndOfRunDerivesSNRAndIntensity(t *testing.T) {
	Convey("Given per-member accumulated counts and a coherence time", t, func() {
		uk := []float64{10, 12, 8, 10}
		Convey("EndOfRun computes Kbar, M, delta, SNR, mean_intensity", func() {
			s := EndOfRun(uk, 100, 5)
			So(s.Kbar, ShouldEqual, 10.0)
			So(s.M, ShouldEqual, 20.0)
			So(s.Delta, ShouldEqual, 0.5)
			So(s.SNR, ShouldAlmostEqual, 2.581988897471611, 1e-9) // sqrt(10/1.5)
			So(s.MeanIntensity, ShouldEqual, 0.1)
		})
	})
}
