package lockfree

import (
	"bytes"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tracked struct {
	id       int
	disposed atomic.Bool
}

type disposeLog struct {
	mu    sync.Mutex
	count map[int]int
}

func newDisposeLog() *disposeLog {
	return &disposeLog{count: make(map[int]int)}
}

func (d *disposeLog) dispose(v *tracked) {
	if v.disposed.Swap(true) {
		panic("disposed twice")
	}
	d.mu.Lock()
	d.count[v.id]++
	d.mu.Unlock()
}

func (d *disposeLog) total() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.count {
		n += c
	}
	return n
}

func TestOwnerEmpty(t *testing.T) {
	o := NewOwner[int]()
	v, ok := o.Get()
	assert.False(t, ok)
	assert.Zero(t, v)
	assert.Equal(t, 0, o.Cleanup())
	assert.Equal(t, uint64(0), o.Generation())
	assert.False(t, o.HasPending())
	assert.Equal(t, DefaultCapacity, o.Capacity())
}

func TestOwnerSetGet(t *testing.T) {
	o := NewOwner[string]()
	require.Equal(t, StatusSuccess, o.Set(Never(), "a"))
	assert.True(t, o.HasPending())

	v, ok := o.Get()
	require.True(t, ok)
	assert.Equal(t, "a", v)
	assert.False(t, o.HasPending())
	assert.Equal(t, uint64(1), o.Generation())

	// nothing new: the same value again
	v, ok = o.Get()
	require.True(t, ok)
	assert.Equal(t, "a", v)
}

func TestOwnerInvalidArguments(t *testing.T) {
	o := NewOwner[int]()
	assert.Equal(t, StatusInvalid, o.Set(nil, 1))
	assert.Equal(t, StatusInvalid, o.Construct(Never(), nil))
	assert.Equal(t, StatusInvalid, o.Construct(Never(), func() (int, error) {
		return 0, errors.New("no")
	}))
	assert.Equal(t, uint64(0), o.Published())
}

func TestOwnerSetTimeout(t *testing.T) {
	log := newDisposeLog()
	o := NewOwner[*tracked](WithDisposer(log.dispose))

	first := &tracked{id: 1}
	require.Equal(t, StatusSuccess, o.Set(Immediate(), first))

	// next is still occupied since no Get ran
	second := &tracked{id: 2}
	assert.Equal(t, StatusTimeout, o.Set(After(5*time.Millisecond), second))
	assert.True(t, second.disposed.Load(), "a value that could not be published is disposed")
	assert.False(t, first.disposed.Load())

	v, ok := o.Get()
	require.True(t, ok)
	assert.Same(t, first, v)
}

// TestOwnerSequentialConstructs publishes five values into a capacity four
// Owner with a Get after each.
func TestOwnerSequentialConstructs(t *testing.T) {
	log := newDisposeLog()
	o := NewOwner[*tracked](WithCapacity(4), WithDisposer(log.dispose))

	values := make([]*tracked, 5)
	for i := range values {
		i := i
		status := o.Construct(Never(), func() (*tracked, error) {
			values[i] = &tracked{id: i + 1}
			return values[i], nil
		})
		require.Equal(t, StatusSuccess, status)
		assert.LessOrEqual(t, o.Pending(), 4)

		v, ok := o.Get()
		require.True(t, ok)
		assert.Same(t, values[i], v)
		assert.LessOrEqual(t, o.Pending(), 4)
	}

	v, ok := o.Get()
	require.True(t, ok)
	assert.Equal(t, 5, v.id)
	assert.Equal(t, uint64(5), o.Generation())
	assert.Equal(t, uint64(5), o.Published())

	o.Cleanup()
	for _, v := range values[:4] {
		assert.True(t, v.disposed.Load(), "value %d", v.id)
	}
	assert.False(t, values[4].disposed.Load())

	o.Close()
	assert.Equal(t, 5, log.total())
	for id := 1; id <= 5; id++ {
		assert.Equal(t, 1, log.count[id])
	}
}

func TestOwnerGetDefersWhenQueueFull(t *testing.T) {
	o := NewOwner[int](WithCapacity(1))

	require.Equal(t, StatusSuccess, o.Set(Never(), 1))
	v, _ := o.Get()
	require.Equal(t, 1, v)

	// publish without cleanup to fill retired
	require.True(t, o.next.CompareAndSwap(nil, &version[int]{gen: 10, value: 2}))
	v, _ = o.Get()
	require.Equal(t, 2, v)
	require.Equal(t, 1, o.Pending())

	require.True(t, o.next.CompareAndSwap(nil, &version[int]{gen: 11, value: 3}))
	v, _ = o.Get()
	assert.Equal(t, 2, v, "no room to retire the current value")
	assert.True(t, o.HasPending())

	assert.Equal(t, 1, o.Cleanup())
	v, _ = o.Get()
	assert.Equal(t, 3, v)
}

func TestOwnerGetBusyFlag(t *testing.T) {
	o := NewOwner[int]()
	require.Equal(t, StatusSuccess, o.Set(Never(), 1))
	v, _ := o.Get()
	require.Equal(t, 1, v)
	require.Equal(t, StatusSuccess, o.Set(Never(), 2))

	g := Acquire(&o.flag, 1)
	require.True(t, g.IsSet())
	v, _ = o.Get()
	assert.Equal(t, 1, v, "a busy flag returns the current value")
	assert.Equal(t, 0, o.Cleanup())
	g.Release()

	v, _ = o.Get()
	assert.Equal(t, 2, v)
}

func TestOwnerClose(t *testing.T) {
	log := newDisposeLog()
	o := NewOwner[*tracked](WithCapacity(2), WithDisposer(log.dispose))

	require.Equal(t, StatusSuccess, o.Set(Never(), &tracked{id: 1}))
	o.Get()
	require.Equal(t, StatusSuccess, o.Set(Never(), &tracked{id: 2}))
	o.Get()
	require.Equal(t, StatusSuccess, o.Set(Never(), &tracked{id: 3}))

	o.Close()
	assert.Equal(t, 3, log.total())
	assert.False(t, o.HasPending())
	_, ok := o.Get()
	assert.False(t, ok)
}

func TestOwnerDiscard(t *testing.T) {
	log := newDisposeLog()
	o := NewOwner[*tracked](WithDisposer(log.dispose))
	assert.False(t, o.Discard())

	first := &tracked{id: 1}
	require.Equal(t, StatusSuccess, o.Set(Never(), first))
	assert.True(t, o.Discard())
	assert.True(t, first.disposed.Load())
	assert.False(t, o.HasPending())

	_, ok := o.Get()
	assert.False(t, ok, "a discarded value is never adopted")

	second := &tracked{id: 2}
	require.Equal(t, StatusSuccess, o.Set(Immediate(), second))
	v, ok := o.Get()
	require.True(t, ok)
	assert.Same(t, second, v)
}

func TestOwnerDisposerTypeMismatch(t *testing.T) {
	assert.Panics(t, func() {
		NewOwner[int](WithDisposer(func(string) {}))
	})
}

func TestOwnerLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(&buf)),
		stumpy.L.WithLevel(logiface.LevelDebug),
	).Logger()

	o := NewOwner[int](WithLogger(logger), WithName("gain"))
	require.Equal(t, StatusSuccess, o.Set(Never(), 1))
	assert.Contains(t, buf.String(), `"owner":"gain"`)
	assert.Contains(t, buf.String(), `"msg":"published"`)
}

// TestOwnerConcurrent has several control goroutines publishing while a
// reader adopts values. A version the reader can still see must never have
// been disposed, and every version must be disposed exactly once.
func TestOwnerConcurrent(t *testing.T) {
	const (
		producers = 4
		perProd   = 2000
	)

	log := newDisposeLog()
	o := NewOwner[*tracked](WithCapacity(4), WithDisposer(log.dispose))

	var (
		ids      atomic.Int64
		timeouts atomic.Int64
		done     atomic.Bool
		wg       sync.WaitGroup
	)

	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProd; i++ {
				status := o.Construct(After(time.Millisecond), func() (*tracked, error) {
					return &tracked{id: int(ids.Add(1))}, nil
				})
				if status == StatusTimeout {
					timeouts.Add(1)
				}
			}
		}()
	}

	var reader sync.WaitGroup
	reader.Add(1)
	go func() {
		defer reader.Done()
		for !done.Load() {
			v, ok := o.Get()
			if !ok {
				continue
			}
			if v.disposed.Load() {
				t.Error("reader observed a disposed value")
				return
			}
		}
	}()

	wg.Wait()
	done.Store(true)
	reader.Wait()

	o.Close()

	assert.Equal(t, int(ids.Load()), log.total())
	assert.Equal(t, uint64(ids.Load()-timeouts.Load()), o.Published())
	for id, c := range log.count {
		assert.Equal(t, 1, c, "value %d", id)
	}
}

func BenchmarkOwnerGet(b *testing.B) {
	o := NewOwner[int]()
	o.Set(Never(), 1)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		o.Get()
	}
}
