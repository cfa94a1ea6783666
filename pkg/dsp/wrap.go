package dsp

// Wrap maps any index, including negative ones, into [0, n).
// Panics if n <= 0.
func Wrap(i, n int) int {
	if n <= 0 {
		panic("dsp: wrap: size must be positive")
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// WrapIncrement returns i+1 wrapped into [0, n), for i already in range.
func WrapIncrement(i, n int) int {
	i++
	if i >= n {
		return 0
	}
	return i
}

// WrapDecrement returns i-1 wrapped into [0, n), for i already in range.
func WrapDecrement(i, n int) int {
	if i <= 0 {
		return n - 1
	}
	return i - 1
}

// WrappedIndex is a position in a ring whose size is a power of two, so
// wrapping is a mask instead of a modulo. The zero value is a ring of size 1.
type WrappedIndex struct {
	pos  uint
	mask uint
}

// NewWrappedIndex creates an index over a ring of at least size slots,
// rounded up to a power of two.
func NewWrappedIndex(size int) WrappedIndex {
	if size < 1 {
		panic("dsp: wrapped index: size must be positive")
	}
	return WrappedIndex{mask: NextPowerOfTwo(uint(size)) - 1}
}

// Pos returns the current position.
func (w WrappedIndex) Pos() int {
	return int(w.pos)
}

// Size returns the ring size.
func (w WrappedIndex) Size() int {
	return int(w.mask + 1)
}

// Advance moves the position by n steps; n may be negative.
func (w *WrappedIndex) Advance(n int) {
	w.pos = (w.pos + uint(n)) & w.mask
}

// Offset returns the position k steps away without moving.
func (w WrappedIndex) Offset(k int) int {
	return int((w.pos + uint(k)) & w.mask)
}

// Distance returns how many forward steps lead from w to other.
func (w WrappedIndex) Distance(other WrappedIndex) int {
	return int((other.pos - w.pos) & w.mask)
}
