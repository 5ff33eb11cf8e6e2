package eventsink

import "stochproc/ensemble"

// ChanSink adapts pipeline.Recorder's push model to a channel Client can
// range over. Pushes beyond the buffer block the recorder's caller, which
// is the same backpressure the synchronous in-memory sink gives up by
// being unbounded; callers that cannot tolerate blocking should size the
// buffer generously or drain via Events in a dedicated goroutine.
type ChanSink struct {
	out chan ensemble.Event
}

// NewChanSink returns a ChanSink buffering up to capacity pending events.
func NewChanSink(capacity int) *ChanSink {
	if capacity <= 0 {
		capacity = 1
	}
	return &ChanSink{out: make(chan ensemble.Event, capacity)}
}

// Push implements pipeline.Sink.
func (s *ChanSink) Push(ev ensemble.Event) {
	s.out <- ev
}

// Events exposes the outgoing channel for a Client to publish from.
func (s *ChanSink) Events() <-chan ensemble.Event {
	return s.out
}

// Close signals no further events will be pushed.
func (s *ChanSink) Close() {
	close(s.out)
}
