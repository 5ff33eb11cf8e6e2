package pipeline

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"stochproc/config"
	"stochproc/ensemble"
)

func newTestDriver(t *testing.T, steps, batch int, filter EventFilter) (*Driver, *MemorySink) {
	t.Helper()
	cfg, err := config.Resolve(config.Input{
		Alpha: []float64{1, 1, 1},
		N:     10,
		Steps: steps,
		Dt:    1,
		Batch: batch,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	rng := rand.New(rand.NewSource(11))
	e := ensemble.New(cfg, func() float64 { return rng.Float64() }, func() float64 { return rng.NormFloat64() })
	sink := NewMemorySink()
	rec := NewRecorder(sink, filter)
	return NewDriver(e, cfg, nil, rec), sink
}

func TestRunGenerativeEmitsConfigStepsAndEnd(t *testing.T) {
	Convey("Given a driver configured for 20 steps with batch every 5", t, func() {
		d, _ := newTestDriver(t, 20, 5, nil)
		Convey("RunGenerative returns config first and end last", func() {
			events := d.RunGenerative()
			So(len(events), ShouldBeGreaterThan, 1)
			So(events[0].Kind, ShouldEqual, ensemble.EventConfig)
			So(events[len(events)-1].Kind, ShouldEqual, ensemble.EventEnd)
			So(events[len(events)-1].Summary, ShouldNotBeNil)
		})
		Convey("batch events appear at the configured cadence", func() {
			events := d.RunGenerative()
			batches := 0
			for _, ev := range events {
				if ev.Kind == ensemble.EventBatch {
					batches++
				}
			}
			So(batches, ShouldBeGreaterThan, 0)
		})
	})
}

func TestRunGenerativeZeroStepsEmitsOnlyConfigAndEnd(t *testing.T) {
	Convey("Given a driver configured for zero steps (R2)", t, func() {
		d, _ := newTestDriver(t, 0, 0, nil)
		Convey("RunGenerative emits config then end, with no step or jump events", func() {
			events := d.RunGenerative()
			So(len(events), ShouldEqual, 2)
			So(events[0].Kind, ShouldEqual, ensemble.EventConfig)
			So(events[1].Kind, ShouldEqual, ensemble.EventEnd)
			for _, ev := range events {
				So(ev.Kind, ShouldNotEqual, ensemble.EventJump)
			}
		})
	})
}

func TestAsyncSourcePullSequencesConfigThenStepsThenEnd(t *testing.T) {
	Convey("Given an async source over a 3-step driver", t, func() {
		d, sink := newTestDriver(t, 3, 0, nil)
		a := NewAsyncSource(d)

		Convey("the first pull yields the config event with more=true", func() {
			events, more := a.Pull()
			So(more, ShouldBeTrue)
			So(len(events), ShouldEqual, 1)
			So(events[0].Kind, ShouldEqual, ensemble.EventConfig)
		})

		Convey("pulling until exhaustion ends with more=false on the final pull only", func() {
			_, _ = a.Pull() // config
			endedAt := -1
			for i := 0; i < 10 && endedAt < 0; i++ {
				events, more := a.Pull()
				if !more {
					endedAt = i
					found := false
					for _, ev := range events {
						if ev.Kind == ensemble.EventEnd {
							found = true
						}
					}
					So(found, ShouldBeTrue)
				}
			}
			So(endedAt, ShouldBeGreaterThanOrEqualTo, 0)

			after, more := a.Pull()
			So(more, ShouldBeFalse)
			So(after, ShouldBeNil)
		})

		Convey("every event pulled is also recorded to the sink", func() {
			for more := true; more; {
				var events []ensemble.Event
				events, more = a.Pull()
				_ = events
			}
			So(len(sink.Events), ShouldBeGreaterThan, 2)
			So(sink.Events[len(sink.Events)-1].Kind, ShouldEqual, ensemble.EventEnd)
		})
	})
}

func TestRecorderHonorsCustomFilter(t *testing.T) {
	Convey("Given a filter that drops jump events", t, func() {
		dropJumps := func(sink Sink, ev ensemble.Event) bool {
			return ev.Kind != ensemble.EventJump
		}
		d, sink := newTestDriver(t, 20, 0, dropJumps)

		Convey("RunGenerative's recorded sink never contains a jump event", func() {
			d.RunGenerative()
			for _, ev := range sink.Events {
				So(ev.Kind, ShouldNotEqual, ensemble.EventJump)
			}
			So(len(sink.Events), ShouldBeGreaterThanOrEqualTo, 2)
		})
	})
}

func TestSupervisorLearningModeRecordsJumpsThenEnd(t *testing.T) {
	Convey("Given a driver built on a 2-state configuration and its supervisor", t, func() {
		cfg, err := config.Resolve(config.Input{Alpha: []float64{1}, N: 2})
		So(err, ShouldBeNil)
		e := ensemble.New(cfg, func() float64 { return 0.5 }, func() float64 { return 0 })
		sink := NewMemorySink()
		rec := NewRecorder(sink, nil)
		d := NewDriver(e, cfg, nil, rec)
		sup := d.Supervisor()

		Convey("feeding a batch forwards jump events to the stepper", func() {
			sup([]ensemble.InputEvent{
				{N: 0, Symbol: "1", T: 1.0},
				{N: 1, Symbol: "0", T: 1.0},
			}, false)
			So(len(sink.Events), ShouldEqual, 2)
			for _, ev := range sink.Events {
				So(ev.Kind, ShouldEqual, ensemble.EventJump)
			}
		})

		Convey("a halt call produces an end event with a final summary", func() {
			sup(nil, true)
			So(len(sink.Events), ShouldEqual, 1)
			So(sink.Events[0].Kind, ShouldEqual, ensemble.EventEnd)
			So(sink.Events[0].Summary, ShouldNotBeNil)
		})
	})
}
