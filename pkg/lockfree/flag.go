package lockfree

import "sync/atomic"

// Flag is a single atomic exclusion token. The zero value is clear.
//
// A Flag is not a lock: failing to acquire it is an expected outcome, and
// callers report StatusBusy instead of waiting.
type Flag struct {
	set atomic.Bool
}

// TryAcquire sets the flag if it is clear, reporting whether it did.
func (f *Flag) TryAcquire() bool {
	return f.set.CompareAndSwap(false, true)
}

// Release clears the flag.
func (f *Flag) Release() {
	f.set.Store(false)
}

// IsSet reports whether the flag is currently held by anyone.
func (f *Flag) IsSet() bool {
	return f.set.Load()
}

// Guard is the scoped owner of an acquired Flag.
//
//	g := lockfree.Acquire(&flag, 1)
//	defer g.Release()
//	if !g.IsSet() {
//	    return lockfree.StatusBusy
//	}
type Guard struct {
	flag  *Flag
	owned bool
}

// Acquire makes up to attempts tries (at least one) to set f. It never waits
// between tries.
func Acquire(f *Flag, attempts int) Guard {
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		if f.TryAcquire() {
			return Guard{flag: f, owned: true}
		}
	}
	return Guard{flag: f}
}

// IsSet reports whether this guard acquired its flag.
func (g *Guard) IsSet() bool {
	return g.owned
}

// Release clears the flag if this guard owns it. Safe to call more than once.
func (g *Guard) Release() {
	if g.owned {
		g.owned = false
		g.flag.Release()
	}
}

// Move transfers ownership to the returned guard; g becomes inert.
func (g *Guard) Move() Guard {
	moved := *g
	g.owned = false
	return moved
}
