package scenarios

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"stochproc/config"
	"stochproc/kernel"
)

func TestLoadEveryNamedScenarioResolves(t *testing.T) {
	Convey("Given every scenario name in the CLI test surface", t, func() {
		for _, name := range Names {
			name := name
			Convey("scenario "+name+" loads and resolves", func() {
				raw, err := Load(name)
				So(err, ShouldBeNil)
				_, err = config.Resolve(raw.ToInput())
				So(err, ShouldBeNil)
			})
		}
	})
}

func TestR1MeanRecurrenceMatchesTextbookExample(t *testing.T) {
	Convey("Given the R1 scenario", t, func() {
		raw, err := Load("R1")
		So(err, ShouldBeNil)
		resolved, err := config.Resolve(raw.ToInput())
		So(err, ShouldBeNil)
		Convey("eqP and H match pg.406 example 1", func() {
			So(resolved.EqP[0], ShouldAlmostEqual, 0.4, 1e-9)
			So(resolved.EqP[1], ShouldAlmostEqual, 0.2, 1e-9)
			So(resolved.RT.At(0, 0), ShouldAlmostEqual, 2.5, 1e-9)
			So(resolved.RT.At(1, 1), ShouldAlmostEqual, 5.0, 1e-9)
		})
	})
}

func TestR2ZeroStepsResolves(t *testing.T) {
	Convey("Given the R2 scenario", t, func() {
		raw, err := Load("R2")
		So(err, ShouldBeNil)
		Convey("Steps is zero", func() {
			So(raw.Steps, ShouldEqual, 0)
		})
	})
}

func TestR2_1DetectsNonErgodic(t *testing.T) {
	Convey("Given the R2.1 scenario with an absorbing state", t, func() {
		raw, err := Load("R2.1")
		So(err, ShouldBeNil)
		resolved, err := config.Resolve(raw.ToInput())
		So(err, ShouldBeNil)
		Convey("the solver reports non-ergodic", func() {
			So(resolved.Ergodic, ShouldBeFalse)
		})
	})
}

func TestR2_3FirstAbsorptionMatchesGambler(t *testing.T) {
	Convey("Given the R2.3 five-state gambler scenario", t, func() {
		raw, err := Load("R2.3")
		So(err, ShouldBeNil)
		resolved, err := config.Resolve(raw.ToInput())
		So(err, ShouldBeNil)
		Convey("abT and abP match scenario 3's expectations", func() {
			So(resolved.Ab.Times[0], ShouldAlmostEqual, 3, 1e-6)
			So(resolved.Ab.Times[1], ShouldAlmostEqual, 4, 1e-6)
			So(resolved.Ab.Times[2], ShouldAlmostEqual, 3, 1e-6)
			So(resolved.Ab.Probs[0][0], ShouldAlmostEqual, 0.75, 1e-6)
			So(resolved.Ab.Probs[1][0], ShouldAlmostEqual, 0.5, 1e-6)
			So(resolved.Ab.Probs[2][0], ShouldAlmostEqual, 0.25, 1e-6)
		})
	})
}

func TestR3_3LearningEventsTotalThirtyFive(t *testing.T) {
	Convey("Given the R3.3 scenario", t, func() {
		raw, err := Load("R3.3")
		So(err, ShouldBeNil)
		Convey("it carries exactly 35 canned events", func() {
			So(len(raw.LearningEvents), ShouldEqual, 35)
		})
	})
}

func TestR5ResolvesToBayesKind(t *testing.T) {
	Convey("Given the R5 bayes scenario", t, func() {
		raw, err := Load("R5")
		So(err, ShouldBeNil)
		resolved, err := config.Resolve(raw.ToInput())
		So(err, ShouldBeNil)
		Convey("Resolve picks KindBayes and builds a net sized to K", func() {
			So(resolved.Kind, ShouldEqual, kernel.KindBayes)
			So(resolved.K, ShouldEqual, 3)
			So(resolved.BayesNet, ShouldNotBeNil)
			So(len(resolved.BayesNet.Net), ShouldEqual, 3)
		})
	})
}

func TestR4_1EmissionGridHasFortyEightCells(t *testing.T) {
	Convey("Given the R4.1 permutation-generator scenario", t, func() {
		raw, err := Load("R4.1")
		So(err, ShouldBeNil)
		resolved, err := config.Resolve(raw.ToInput())
		So(err, ShouldBeNil)
		Convey("the emission grid has 2*6*4 = 48 cells", func() {
			So(len(resolved.EmissionMu), ShouldEqual, 48)
		})
	})
}
