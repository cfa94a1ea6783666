package lockfree

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueBasic(t *testing.T) {
	q := NewQueue[int](3)
	assert.Equal(t, 3, q.Cap())
	assert.True(t, q.IsEmpty())
	assert.Equal(t, 0, q.Size())

	_, status := q.Get()
	assert.Equal(t, StatusEmpty, status)

	for i := 1; i <= 3; i++ {
		require.Equal(t, StatusSuccess, q.Put(i))
	}
	assert.True(t, q.IsFull())
	assert.Equal(t, 3, q.Size())
	assert.Equal(t, StatusFull, q.Put(4))
	assert.Equal(t, 3, q.Size(), "a failed put must not mutate the queue")

	for i := 1; i <= 3; i++ {
		v, status := q.Get()
		require.Equal(t, StatusSuccess, status)
		assert.Equal(t, i, v)
	}
	assert.True(t, q.IsEmpty())
}

func TestQueueCapacityPanics(t *testing.T) {
	assert.Panics(t, func() { NewQueue[int](0) })
	assert.NotPanics(t, func() { NewQueue[int](1) })
}

func TestQueueReleasesReferences(t *testing.T) {
	q := NewQueue[*int](2)
	v := 7
	q.Put(&v)
	got, _ := q.Get()
	assert.Same(t, &v, got)
	for _, slot := range q.slots {
		assert.Nil(t, slot)
	}
}

// TestQueueModel drives random put/get sequences against a slice model.
func TestQueueModel(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, capacity := range []int{1, 2, 4, 7, 16} {
		q := NewQueue[int](capacity)
		var (
			model      []int
			puts, gets int
			next       int
		)

		for step := 0; step < 5000; step++ {
			if rng.Intn(2) == 0 {
				status := q.Put(next)
				if len(model) == capacity {
					require.Equal(t, StatusFull, status, "capacity %d", capacity)
				} else {
					require.Equal(t, StatusSuccess, status, "capacity %d", capacity)
					model = append(model, next)
					puts++
				}
				next++
			} else {
				v, status := q.Get()
				if len(model) == 0 {
					require.Equal(t, StatusEmpty, status, "capacity %d", capacity)
				} else {
					require.Equal(t, StatusSuccess, status, "capacity %d", capacity)
					require.Equal(t, model[0], v, "FIFO order, capacity %d", capacity)
					model = model[1:]
					gets++
				}
			}
			require.LessOrEqual(t, gets, puts)
			require.Equal(t, len(model), q.Size())
		}
	}
}

func TestQueueConcurrentFIFO(t *testing.T) {
	const total = 100000
	q := NewQueue[int](64)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; {
			if q.Put(i) == StatusSuccess {
				i++
			}
		}
	}()

	expected := 0
	for expected < total {
		v, status := q.Get()
		if status != StatusSuccess {
			continue
		}
		if v != expected {
			t.Fatalf("got %d, want %d", v, expected)
		}
		expected++
	}
	wg.Wait()
	assert.True(t, q.IsEmpty())
}

func BenchmarkQueuePutGet(b *testing.B) {
	q := NewQueue[int](1024)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		q.Put(i)
		q.Get()
	}
}
