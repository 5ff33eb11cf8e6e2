// Package pipeline implements the pipeline driver and recorder: it
// coordinates the generative and learning loops, batch reporting, and
// filtered delivery to either a synchronous in-memory sink or an
// asynchronous pull-driven one.
package pipeline

import "stochproc/ensemble"

// Sink is the push capability a synchronous consumer implements.
type Sink interface {
	Push(ev ensemble.Event)
}

// MemorySink accumulates every pushed event into an in-memory slice; the
// default synchronous sink, delivering the entire in-memory event list at
// the end of a run.
type MemorySink struct {
	Events []ensemble.Event
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink { return &MemorySink{} }

func (s *MemorySink) Push(ev ensemble.Event) {
	s.Events = append(s.Events, ev)
}

// EventFilter decides whether an event should reach the sink, injected as
// a plain function rather than a strategy interface. The default filter
// pushes everything.
type EventFilter func(sink Sink, ev ensemble.Event) bool

// DefaultFilter pushes every event.
func DefaultFilter(Sink, ensemble.Event) bool { return true }

// Recorder classifies and forwards outgoing events, deferring to an
// injected filter to decide whether each one reaches the sink.
type Recorder struct {
	Sink   Sink
	Filter EventFilter
}

// NewRecorder returns a Recorder; a nil filter defaults to DefaultFilter.
func NewRecorder(sink Sink, filter EventFilter) *Recorder {
	if filter == nil {
		filter = DefaultFilter
	}
	return &Recorder{Sink: sink, Filter: filter}
}

// Record forwards ev to the sink if the filter accepts it.
func (r *Recorder) Record(ev ensemble.Event) {
	if r.Filter(r.Sink, ev) {
		r.Sink.Push(ev)
	}
}
