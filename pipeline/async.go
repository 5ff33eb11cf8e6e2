package pipeline

import "stochproc/ensemble"

// AsyncSource is the pull-driven counterpart to RunGenerative: the sink is
// a readable stream that pulls, and each pull runs one step (or the
// terminal end). The first call to Pull returns the config event without
// stepping; each later call advances the engine by exactly one step and
// returns that step's events, or the terminal end event once, after which
// more is false.
type AsyncSource struct {
	driver        *Driver
	configEmitted bool
	ended         bool
}

// NewAsyncSource wraps a Driver as a pull source.
func NewAsyncSource(d *Driver) *AsyncSource {
	return &AsyncSource{driver: d}
}

// Pull returns the next batch of events and whether the stream has more to
// give. The first pull yields the config event; the last yields end.
func (a *AsyncSource) Pull() ([]ensemble.Event, bool) {
	if a.ended {
		return nil, false
	}

	if !a.configEmitted {
		a.configEmitted = true
		ev := configEvent(a.driver.Cfg)
		a.driver.Recorder.Record(ev)
		return []ensemble.Event{ev}, true
	}

	if a.driver.Engine.Step() >= a.driver.Cfg.Steps {
		a.ended = true
		end := ensemble.Event{
			Kind:    ensemble.EventEnd,
			T:       a.driver.Engine.Time(),
			At:      a.driver.Engine.Step(),
			Summary: statsBatch(a.driver),
		}
		a.driver.Recorder.Record(end)
		return []ensemble.Event{end}, false
	}

	events := a.driver.Engine.StepGenerative()
	for _, ev := range events {
		a.driver.Recorder.Record(ev)
	}
	if batch := a.driver.batchEvent(); batch != nil {
		a.driver.Recorder.Record(*batch)
		events = append(events, *batch)
	}
	return events, true
}
