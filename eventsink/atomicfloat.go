package eventsink

import (
	"math"
	"sync/atomic"
	"unsafe"
)

// AtomicFloat64 gives lock-free access to a float64 shared between the
// publish goroutine (one writer, every outgoing event) and the health
// handler (many readers, one per scrape) without taking the hot publish
// path through a mutex.
type AtomicFloat64 struct {
	val float64
}

// NewAtomicFloat64 wraps an initial value for atomic access.
func NewAtomicFloat64(val float64) *AtomicFloat64 {
	return &AtomicFloat64{val: val}
}

// AtomicRead returns the current value, synchronized with main memory.
func (af *AtomicFloat64) AtomicRead() float64 {
	bits := atomic.LoadUint64((*uint64)(unsafe.Pointer(&af.val)))
	return math.Float64frombits(bits)
}

// AtomicSet stores newVal, retrying the compare-and-swap against whatever
// the current value turns out to be. Unlike an add, a set never needs to
// know the prior value was what the caller expected, so this always
// succeeds (the loop accounts for a concurrent writer changing val between
// the read and the swap, which cannot happen in this package's single
// publish goroutine, but keeps the type safe to reuse in eventsink/server.go).
func (af *AtomicFloat64) AtomicSet(newVal float64) {
	for {
		old := atomic.LoadUint64((*uint64)(unsafe.Pointer(&af.val)))
		if atomic.CompareAndSwapUint64((*uint64)(unsafe.Pointer(&af.val)), old, math.Float64bits(newVal)) {
			return
		}
	}
}
