// Package gain converts between decibels and linear amplitude.
package gain

import (
	"math"

	"golang.org/x/exp/constraints"
)

// MinDB stands in for -inf dB.
const MinDB = -200.0

// LinearToDb converts an amplitude to decibels. Non-positive values give MinDB.
func LinearToDb[T constraints.Float](linear T) T {
	if !(linear > 0) {
		return MinDB
	}
	return T(math.Max(20*math.Log10(float64(linear)), MinDB))
}

// DbToLinear converts decibels to an amplitude. MinDB and below give 0.
func DbToLinear[T constraints.Float](db T) T {
	if db <= MinDB {
		return 0
	}
	return T(math.Pow(10, float64(db)/20))
}

// PeakDb returns the peak level of buffer in decibels.
func PeakDb[T constraints.Float](buffer []T) T {
	var peak T
	for _, v := range buffer {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	return LinearToDb(peak)
}
