package lockfree

import (
	"sync/atomic"

	"github.com/jtolds/gls"
)

// Fence pairs a release on one goroutine with an acquire on another.
//
// Go exposes no standalone fence instruction; instead every release is an
// atomic add on a shared sequence word and every acquire is an atomic load of
// it. Under the Go memory model an Acquire that runs after a Release
// observes every write made before that Release.
//
// Call Release after the writes that must become visible and before
// publishing their address; call Acquire after a successful non-blocking
// read of shared state and before dereferencing what it led to.
type Fence struct {
	seq atomic.Uint64
}

// Release publishes all prior writes.
func (f *Fence) Release() {
	f.seq.Add(1)
}

// Acquire makes writes published by earlier Release calls visible, returning
// the number of releases observed.
func (f *Fence) Acquire() uint64 {
	return f.seq.Load()
}

// Full is an unconditional release followed by an acquire.
func (f *Fence) Full() {
	f.Release()
	f.Acquire()
}

// Sequence returns how many releases have been issued.
func (f *Fence) Sequence() uint64 {
	return f.seq.Load()
}

type fenceDepthKey struct{}

// RecursiveFence issues its fence pair only at the outermost nesting level of
// the calling goroutine, so nested calls that each ask for fencing pay once.
//
// The depth is goroutine-local. Looking it up walks the stack, so this type
// belongs on control goroutines; the audio path uses a plain Fence.
type RecursiveFence struct {
	fence Fence
	ctx   *gls.ContextManager
	outer atomic.Uint64
}

// NewRecursiveFence creates a RecursiveFence.
func NewRecursiveFence() *RecursiveFence {
	return &RecursiveFence{ctx: gls.NewContextManager()}
}

// Depth returns the nesting depth of the calling goroutine, 0 outside Do.
func (r *RecursiveFence) Depth() int {
	if v, ok := r.ctx.GetValue(fenceDepthKey{}); ok {
		return v.(int)
	}
	return 0
}

// Do runs fn inside the fence: acquire before and release after, but only
// when the caller is not already inside Do.
func (r *RecursiveFence) Do(fn func()) {
	depth := r.Depth()
	if depth == 0 {
		r.fence.Acquire()
		r.outer.Add(1)
		defer r.fence.Release()
	}
	r.ctx.SetValues(gls.Values{fenceDepthKey{}: depth + 1}, fn)
}

// Sequence returns how many releases have been issued.
func (r *RecursiveFence) Sequence() uint64 {
	return r.fence.Sequence()
}

// Outermost returns how many times Do was entered at depth 0.
func (r *RecursiveFence) Outermost() uint64 {
	return r.outer.Load()
}
