package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 5, 0},
		{4, 5, 4},
		{5, 5, 0},
		{12, 5, 2},
		{-1, 5, 4},
		{-5, 5, 0},
		{-6, 5, 4},
		{7, 1, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Wrap(tt.i, tt.n), "Wrap(%d, %d)", tt.i, tt.n)
	}

	assert.Panics(t, func() { Wrap(1, 0) })
}

func TestWrapStep(t *testing.T) {
	assert.Equal(t, 1, WrapIncrement(0, 3))
	assert.Equal(t, 0, WrapIncrement(2, 3))
	assert.Equal(t, 2, WrapDecrement(0, 3))
	assert.Equal(t, 1, WrapDecrement(2, 3))

	// a full lap returns to the start
	i := 0
	for n := 0; n < 7; n++ {
		i = WrapIncrement(i, 7)
	}
	assert.Equal(t, 0, i)
}

func TestWrappedIndex(t *testing.T) {
	w := NewWrappedIndex(6)
	assert.Equal(t, 8, w.Size())
	assert.Equal(t, 0, w.Pos())

	w.Advance(5)
	assert.Equal(t, 5, w.Pos())
	w.Advance(5)
	assert.Equal(t, 2, w.Pos())
	w.Advance(-3)
	assert.Equal(t, 7, w.Pos())

	assert.Equal(t, 0, w.Offset(1))
	assert.Equal(t, 6, w.Offset(-1))
	assert.Equal(t, 7, w.Pos(), "Offset must not move the index")

	other := w
	other.Advance(3)
	assert.Equal(t, 3, w.Distance(other))
	assert.Equal(t, 5, other.Distance(w))

	assert.Panics(t, func() { NewWrappedIndex(0) })
}

func TestWrappedIndexZeroValue(t *testing.T) {
	var w WrappedIndex
	assert.Equal(t, 1, w.Size())
	w.Advance(3)
	assert.Equal(t, 0, w.Pos())
}
