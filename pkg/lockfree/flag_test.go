package lockfree

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlag(t *testing.T) {
	var f Flag
	assert.False(t, f.IsSet())
	assert.True(t, f.TryAcquire())
	assert.True(t, f.IsSet())
	assert.False(t, f.TryAcquire())
	f.Release()
	assert.False(t, f.IsSet())
}

func TestGuardAcquireRelease(t *testing.T) {
	var f Flag

	g := Acquire(&f, 1)
	require.True(t, g.IsSet())
	assert.True(t, f.IsSet())

	other := Acquire(&f, 10)
	assert.False(t, other.IsSet(), "second guard must fail while the first holds the flag")
	other.Release()
	assert.True(t, f.IsSet(), "releasing an inert guard must not clear the flag")

	g.Release()
	assert.False(t, f.IsSet())
	g.Release()
	assert.False(t, f.IsSet())
}

func TestGuardZeroAttempts(t *testing.T) {
	var f Flag
	g := Acquire(&f, 0)
	defer g.Release()
	assert.True(t, g.IsSet(), "attempts below one still make one attempt")
}

func TestGuardReleasedOnPanic(t *testing.T) {
	var f Flag

	func() {
		defer func() { _ = recover() }()
		g := Acquire(&f, 1)
		defer g.Release()
		require.True(t, g.IsSet())
		panic("boom")
	}()

	assert.False(t, f.IsSet())
}

func TestGuardMove(t *testing.T) {
	var f Flag

	g := Acquire(&f, 1)
	require.True(t, g.IsSet())

	moved := g.Move()
	assert.False(t, g.IsSet())
	assert.True(t, moved.IsSet())

	g.Release()
	assert.True(t, f.IsSet(), "the source guard is disowned")

	moved.Release()
	assert.False(t, f.IsSet())
}

func TestGuardMutualExclusion(t *testing.T) {
	var (
		f       Flag
		inside  atomic.Int32
		entered atomic.Int64
		wg      sync.WaitGroup
	)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 1000; n++ {
				g := Acquire(&f, 4)
				if !g.IsSet() {
					continue
				}
				if inside.Add(1) != 1 {
					t.Error("two guards held the flag at once")
				}
				entered.Add(1)
				inside.Add(-1)
				g.Release()
			}
		}()
	}
	wg.Wait()

	assert.Positive(t, entered.Load())
	assert.False(t, f.IsSet())
}
