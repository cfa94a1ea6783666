package lockfree

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/joeycumines/logiface"
)

// DefaultCapacity is the default size of an Owner's reclamation queue.
const DefaultCapacity = 8

const (
	spinAttempts = 64
	backoffSleep = 50 * time.Microsecond
)

// version is one published value, tagged with its generation.
type version[T any] struct {
	gen   uint64
	value T
}

func (v *version[T]) get() (T, bool) {
	if v == nil {
		var zero T
		return zero, false
	}
	return v.value, true
}

// Owner lets control goroutines publish new versions of a value that a
// single real-time goroutine picks up with Get, without either side
// blocking the other.
//
// At any instant a version is owned by exactly one of the current slot, the
// next slot or the reclamation queue. Set places a version in next; Get
// promotes next to current and retires the previous current into the queue;
// Cleanup disposes retired versions on a control goroutine.
type Owner[T any] struct {
	current atomic.Pointer[version[T]] // written by the reader only
	next    atomic.Pointer[version[T]] // nil -> v by producers, v -> nil by the reader

	flag    Flag
	fence   Fence
	retired *Queue[*version[T]]

	gens      atomic.Uint64
	published atomic.Uint64

	dispose func(T)
	logger  *logiface.Logger[logiface.Event]
	name    string
}

type ownerConfig struct {
	capacity int
	dispose  any
	logger   *logiface.Logger[logiface.Event]
	name     string
}

// OwnerOption configures an Owner.
type OwnerOption func(c *ownerConfig)

// WithCapacity sets the reclamation queue capacity.
func WithCapacity(n int) OwnerOption {
	return func(c *ownerConfig) {
		c.capacity = n
	}
}

// WithDisposer sets the function called exactly once for every version the
// Owner lets go of. Without one, versions are simply dropped.
func WithDisposer[T any](fn func(T)) OwnerOption {
	return func(c *ownerConfig) {
		c.dispose = fn
	}
}

// WithLogger sets the logger used on the control side.
func WithLogger(logger *logiface.Logger[logiface.Event]) OwnerOption {
	return func(c *ownerConfig) {
		c.logger = logger
	}
}

// WithName labels log output.
func WithName(name string) OwnerOption {
	return func(c *ownerConfig) {
		c.name = name
	}
}

// NewOwner creates an empty Owner.
func NewOwner[T any](options ...OwnerOption) *Owner[T] {
	c := ownerConfig{
		capacity: DefaultCapacity,
		name:     "owner",
	}
	for _, o := range options {
		o(&c)
	}

	o := &Owner[T]{
		retired: NewQueue[*version[T]](c.capacity),
		logger:  c.logger,
		name:    c.name,
	}
	if c.dispose != nil {
		fn, ok := c.dispose.(func(T))
		if !ok {
			panic(fmt.Sprintf("lockfree: owner: disposer %T does not accept %T", c.dispose, *new(T)))
		}
		o.dispose = fn
	}
	return o
}

// Construct builds a value on the calling goroutine and publishes it as Set
// does. A nil build, or one that fails, returns StatusInvalid.
func (o *Owner[T]) Construct(to TimeOut, build func() (T, error)) Status {
	if build == nil {
		return StatusInvalid
	}
	v, err := build()
	if err != nil {
		o.logger.Warning().
			Str("owner", o.name).
			Err(err).
			Log("construct failed")
		return StatusInvalid
	}
	return o.Set(to, v)
}

// Set publishes v for the reader to adopt on its next Get. It retries for as
// long as to allows while an earlier version is still waiting to be adopted.
// On timeout v is disposed and StatusTimeout returned. A successful publish
// also drains whatever the reader has retired.
func (o *Owner[T]) Set(to TimeOut, v T) Status {
	if to == nil {
		return StatusInvalid
	}

	ver := &version[T]{gen: o.gens.Add(1), value: v}

	// ver is fully written; make that visible before its address is published
	o.fence.Release()

	to.Start()
	for attempt := 0; ; attempt++ {
		if o.next.CompareAndSwap(nil, ver) {
			o.published.Add(1)
			o.logger.Debug().
				Str("owner", o.name).
				Uint64("generation", ver.gen).
				Int("pending", o.retired.Size()).
				Log("published")
			o.Cleanup()
			return StatusSuccess
		}
		if !to.InTime() {
			break
		}
		backoff(attempt)
	}

	o.disposeValue(v)
	o.logger.Warning().
		Str("owner", o.name).
		Uint64("generation", ver.gen).
		Log("publish timed out")
	return StatusTimeout
}

func backoff(attempt int) {
	if attempt < spinAttempts {
		runtime.Gosched()
		return
	}
	time.Sleep(backoffSleep)
}

// Get returns the latest adopted value, adopting a pending one first when it
// can. It never blocks: if the flag is busy, or the reclamation queue has no
// room for the version being replaced, the current value is returned and the
// pending one stays for a later call. The bool is false only if nothing has
// been published yet.
//
// Get must only be called from one goroutine at a time.
func (o *Owner[T]) Get() (T, bool) {
	cur := o.current.Load()

	g := Acquire(&o.flag, 1)
	if !g.IsSet() {
		return cur.get()
	}
	defer g.Release()

	nxt := o.next.Load()
	if nxt == nil {
		return cur.get()
	}

	// the reader is the only producer on retired, so a queue seen with room
	// keeps it until the Put below
	if cur != nil && o.retired.IsFull() {
		return cur.get()
	}

	if !o.next.CompareAndSwap(nxt, nil) {
		return cur.get()
	}
	if cur != nil {
		o.retired.Put(cur)
	}

	o.fence.Acquire()
	o.current.Store(nxt)
	return nxt.value, true
}

// Cleanup disposes retired versions one at a time until the queue is empty
// or the flag is busy, returning how many were disposed. Control side only.
func (o *Owner[T]) Cleanup() int {
	n := 0
	for {
		g := Acquire(&o.flag, 1)
		if !g.IsSet() {
			return n
		}
		ver, status := o.retired.Get()
		if status != StatusSuccess {
			g.Release()
			return n
		}
		o.fence.Acquire()
		g.Release()

		o.disposeValue(ver.value)
		n++
	}
}

// Discard withdraws a published value the reader has not adopted yet and
// disposes it, reporting whether there was one. Control side only.
func (o *Owner[T]) Discard() bool {
	ver := o.next.Load()
	if ver == nil || !o.next.CompareAndSwap(ver, nil) {
		return false
	}
	o.disposeValue(ver.value)
	o.logger.Debug().
		Str("owner", o.name).
		Uint64("generation", ver.gen).
		Log("discarded")
	return true
}

// Close disposes every version the Owner still holds. It must only be called
// once no other goroutine is using the Owner.
func (o *Owner[T]) Close() {
	o.fence.Full()

	n := 0
	for {
		ver, status := o.retired.Get()
		if status != StatusSuccess {
			break
		}
		o.disposeValue(ver.value)
		n++
	}
	if ver := o.next.Swap(nil); ver != nil {
		o.disposeValue(ver.value)
		n++
	}
	if ver := o.current.Swap(nil); ver != nil {
		o.disposeValue(ver.value)
		n++
	}

	o.logger.Debug().
		Str("owner", o.name).
		Int("disposed", n).
		Log("closed")
}

// Generation returns the generation of the adopted value, 0 if none.
func (o *Owner[T]) Generation() uint64 {
	if cur := o.current.Load(); cur != nil {
		return cur.gen
	}
	return 0
}

// Published returns the number of successful Set and Construct calls.
func (o *Owner[T]) Published() uint64 {
	return o.published.Load()
}

// HasPending reports whether a published value is waiting for Get.
func (o *Owner[T]) HasPending() bool {
	return o.next.Load() != nil
}

// Pending returns the number of retired versions awaiting Cleanup.
func (o *Owner[T]) Pending() int {
	return o.retired.Size()
}

// Capacity returns the reclamation queue capacity.
func (o *Owner[T]) Capacity() int {
	return o.retired.Cap()
}

func (o *Owner[T]) disposeValue(v T) {
	if o.dispose != nil {
		o.dispose(v)
	}
}
