package pipeline

import (
	"stochproc/ensemble"
)

// Supervisor is invoked by an external event feeder with either a batch
// of time-ordered events to forward to the stepper, or halt=true to
// signal the end of the stream.
type Supervisor func(batch []ensemble.InputEvent, halt bool)

// Supervisor returns the callback the driver installs for learning mode.
// The external event feeder invokes it either with a batch of events to
// apply, or with halt=true to signal the end of the stream, at which
// point it produces an end event carrying the final MLEs.
func (d *Driver) Supervisor() Supervisor {
	return func(batch []ensemble.InputEvent, halt bool) {
		if halt {
			d.Recorder.Record(ensemble.Event{
				Kind:    ensemble.EventEnd,
				T:       d.Engine.Time(),
				At:      d.Engine.Step(),
				Summary: statsBatch(d),
			})
			return
		}

		if d.Cfg.Kind.Stateless() {
			d.Engine.StepLearningStateless(batch)
		} else {
			for _, ev := range d.Engine.StepLearningCategorical(batch) {
				d.Recorder.Record(ev)
			}
		}
		d.maybeBatch()
	}
}
