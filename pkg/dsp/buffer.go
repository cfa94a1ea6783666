package dsp

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Buffer utilities for common audio operations, usable on the audio thread.

// Clear zeroes a buffer - no allocations
func Clear[T constraints.Float](buffer []T) {
	for i := range buffer {
		buffer[i] = 0
	}
}

// Copy copies from source to destination, returning the number of samples
// copied - no allocations
func Copy[T constraints.Float](dst, src []T) int {
	return copy(dst, src)
}

// Peak finds the maximum absolute value in a buffer
func Peak[T constraints.Float](buffer []T) T {
	var peak T
	for _, sample := range buffer {
		if sample < 0 {
			sample = -sample
		}
		if sample > peak {
			peak = sample
		}
	}
	return peak
}

// RMS calculates the root mean square of a buffer
func RMS[T constraints.Float](buffer []T) T {
	if len(buffer) == 0 {
		return 0
	}

	var sum float64
	for _, sample := range buffer {
		sum += float64(sample) * float64(sample)
	}

	return T(math.Sqrt(sum / float64(len(buffer))))
}
