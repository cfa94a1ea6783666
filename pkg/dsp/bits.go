package dsp

import (
	"math/bits"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// IsPowerOfTwo reports whether v is a positive power of two.
func IsPowerOfTwo[T constraints.Integer](v T) bool {
	return v > 0 && v&(v-1) == 0
}

// NextPowerOfTwo returns the smallest power of two >= v.
// NextPowerOfTwo(0) is 1. Returns 0 if the result does not fit in T.
func NextPowerOfTwo[T constraints.Unsigned](v T) T {
	if v <= 1 {
		return 1
	}
	shift := bits.Len64(uint64(v - 1))
	if shift >= int(unsafe.Sizeof(v))*8 {
		return 0
	}
	return T(1) << shift
}

// PrevPowerOfTwo returns the largest power of two <= v, or 0 for v == 0.
func PrevPowerOfTwo[T constraints.Unsigned](v T) T {
	if v == 0 {
		return 0
	}
	return T(1) << (bits.Len64(uint64(v)) - 1)
}

// Log2Floor returns floor(log2(v)), or -1 for v == 0.
func Log2Floor[T constraints.Unsigned](v T) int {
	return bits.Len64(uint64(v)) - 1
}

// Log2Ceil returns ceil(log2(v)), or -1 for v == 0.
func Log2Ceil[T constraints.Unsigned](v T) int {
	n := Log2Floor(v)
	if n < 0 || v&(v-1) == 0 {
		return n
	}
	return n + 1
}

// AlignUp rounds v up to the next multiple of alignment.
// Panics if alignment is not a power of two.
func AlignUp[T constraints.Integer](v, alignment T) T {
	mask := MaskFor(alignment)
	return (v + mask) &^ mask
}

// AlignDown rounds v down to a multiple of alignment.
// Panics if alignment is not a power of two.
func AlignDown[T constraints.Integer](v, alignment T) T {
	return v &^ MaskFor(alignment)
}

// IsAligned reports whether v is a multiple of alignment.
// Panics if alignment is not a power of two.
func IsAligned[T constraints.Integer](v, alignment T) bool {
	return v&MaskFor(alignment) == 0
}

// MaskFor returns the index mask for a power-of-two size.
func MaskFor[T constraints.Integer](size T) T {
	if !IsPowerOfTwo(size) {
		panic("dsp: size must be a power of two")
	}
	return size - 1
}
