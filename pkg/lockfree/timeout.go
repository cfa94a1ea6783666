package lockfree

import (
	"context"
	"time"
)

// TimeOut bounds the retries of a control-side operation.
//
// Start is called once before the first attempt; InTime reports whether
// another attempt is allowed. Implementations returned by After carry state
// and must not be shared between concurrent operations.
type TimeOut interface {
	Start()
	InTime() bool
	TimedOut() bool
}

type never struct{}

func (never) Start()         {}
func (never) InTime() bool   { return true }
func (never) TimedOut() bool { return false }

type immediate struct{}

func (immediate) Start()         {}
func (immediate) InTime() bool   { return false }
func (immediate) TimedOut() bool { return true }

// Never returns a TimeOut that never expires.
func Never() TimeOut { return never{} }

// Immediate returns a TimeOut that is already expired, so exactly one
// attempt is made.
func Immediate() TimeOut { return immediate{} }

type deadline struct {
	d   time.Duration
	end time.Time
}

// After returns a TimeOut that expires d after Start. d <= 0 behaves like
// Immediate.
func After(d time.Duration) TimeOut {
	if d <= 0 {
		return Immediate()
	}
	return &deadline{d: d}
}

func (t *deadline) Start() {
	t.end = time.Now().Add(t.d)
}

func (t *deadline) InTime() bool {
	return time.Now().Before(t.end)
}

func (t *deadline) TimedOut() bool {
	return !t.InTime()
}

type contextTimeOut struct {
	ctx context.Context
}

// FromContext returns a TimeOut that stays in time until ctx is done.
func FromContext(ctx context.Context) TimeOut {
	return contextTimeOut{ctx: ctx}
}

func (contextTimeOut) Start() {}

func (t contextTimeOut) InTime() bool {
	return t.ctx.Err() == nil
}

func (t contextTimeOut) TimedOut() bool {
	return t.ctx.Err() != nil
}
