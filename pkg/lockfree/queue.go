package lockfree

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/justyntemme/rtdsp/pkg/dsp"
)

// Queue is a bounded single-producer/single-consumer FIFO.
//
// One goroutine may call Put and one (possibly different) goroutine may call
// Get; anything else is undefined. All operations are O(1) and never block.
// Capacity N is backed by N+1 slots so that full and empty are told apart
// without a shared counter.
type Queue[T any] struct {
	_     cpu.CacheLinePad
	write atomic.Int64 // producer cursor
	_     cpu.CacheLinePad
	read  atomic.Int64 // consumer cursor
	_     cpu.CacheLinePad
	slots []T
}

// NewQueue creates a queue holding up to capacity items.
// Panics if capacity < 1.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		panic("lockfree: queue: capacity must be at least 1")
	}
	return &Queue[T]{slots: make([]T, capacity+1)}
}

// Put appends v, or returns StatusFull without touching the queue.
// Producer only.
func (q *Queue[T]) Put(v T) Status {
	w := int(q.write.Load())
	next := dsp.WrapIncrement(w, len(q.slots))
	if next == int(q.read.Load()) {
		return StatusFull
	}
	q.slots[w] = v
	q.write.Store(int64(next))
	return StatusSuccess
}

// Get removes the oldest item, or returns StatusEmpty.
// Consumer only.
func (q *Queue[T]) Get() (T, Status) {
	var zero T
	r := int(q.read.Load())
	if r == int(q.write.Load()) {
		return zero, StatusEmpty
	}
	v := q.slots[r]
	// drop the reference so a retired value is not kept alive by the ring
	q.slots[r] = zero
	q.read.Store(int64(dsp.WrapIncrement(r, len(q.slots))))
	return v, StatusSuccess
}

// Size returns the number of queued items. It is a snapshot and only exact
// while neither side is running.
func (q *Queue[T]) Size() int {
	n := int(q.write.Load() - q.read.Load())
	if n < 0 {
		n += len(q.slots)
	}
	return n
}

// Cap returns the capacity.
func (q *Queue[T]) Cap() int {
	return len(q.slots) - 1
}

// IsEmpty reports whether there is nothing to Get. Exact for the consumer.
func (q *Queue[T]) IsEmpty() bool {
	return q.read.Load() == q.write.Load()
}

// IsFull reports whether Put would fail. Exact for the producer: the consumer
// can only make room, never take it away.
func (q *Queue[T]) IsFull() bool {
	return dsp.WrapIncrement(int(q.write.Load()), len(q.slots)) == int(q.read.Load())
}
