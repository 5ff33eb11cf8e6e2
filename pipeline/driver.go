package pipeline

import (
	"stochproc/config"
	"stochproc/emission"
	"stochproc/ensemble"
	"stochproc/stats"
)

// Driver coordinates an ensemble engine, its resolved configuration, and a
// recorder, running either the synchronous generative loop or serving as
// the pull source for the asynchronous one.
type Driver struct {
	Engine   *ensemble.Engine
	Cfg      *config.Resolved
	EM       emission.EM
	Recorder *Recorder
}

// NewDriver wires an engine, configuration, emission-MLE collaborator and
// recorder together.
func NewDriver(e *ensemble.Engine, cfg *config.Resolved, em emission.EM, rec *Recorder) *Driver {
	return &Driver{Engine: e, Cfg: cfg, EM: em, Recorder: rec}
}

func configEvent(cfg *config.Resolved) ensemble.Event {
	return ensemble.Event{Kind: ensemble.EventConfig, T: 0, At: 0}
}

// RunGenerative runs the synchronous generative loop: emits config, steps
// until s >= steps (emitting step/jump/batch events as produced), emits
// end, then returns every event recorded, in order.
func (d *Driver) RunGenerative() []ensemble.Event {
	d.Recorder.Record(configEvent(d.Cfg))

	for d.Engine.Step() < d.Cfg.Steps {
		for _, ev := range d.Engine.StepGenerative() {
			d.Recorder.Record(ev)
		}
		d.maybeBatch()
	}

	d.Recorder.Record(ensemble.Event{
		Kind:    ensemble.EventEnd,
		T:       d.Engine.Time(),
		At:      d.Engine.Step(),
		Summary: statsBatch(d),
	})

	if mem, ok := d.Recorder.Sink.(*MemorySink); ok {
		return mem.Events
	}
	return nil
}

// maybeBatch emits a batch event every Cfg.Batch steps: when batch > 0
// and s % batch == 1, the batch reporter runs.
func (d *Driver) maybeBatch() {
	if ev := d.batchEvent(); ev != nil {
		d.Recorder.Record(*ev)
	}
}

// batchEvent returns a batch event if the current step count warrants one,
// or nil otherwise; it does not record the event (callers decide whether
// to, so the async source can both record and return it to the puller).
func (d *Driver) batchEvent() *ensemble.Event {
	if d.Cfg.Batch <= 0 || d.Engine.Step()%d.Cfg.Batch != 1 {
		return nil
	}
	return &ensemble.Event{
		Kind:    ensemble.EventBatch,
		T:       d.Engine.Time(),
		At:      d.Engine.Step(),
		Summary: statsBatch(d),
	}
}

func statsBatch(d *Driver) *ensemble.Summary {
	return stats.Batch(d.Engine, d.Cfg, d.EM)
}
