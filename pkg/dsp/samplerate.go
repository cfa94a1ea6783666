package dsp

import "math"

// minDesignFrequency is the lowest frequency handed to filter designs.
const minDesignFrequency = 1e-3

var standardSampleRates = [...]float64{
	8000, 11025, 16000, 22050,
	SampleRate32k, SampleRate44k1, SampleRate48k,
	SampleRate88k2, SampleRate96k,
	176400, SampleRate192k,
	352800, 384000, 705600, MaxSampleRate,
}

// ClampSampleRate limits rate to [MinSampleRate, MaxSampleRate].
// Non-finite or non-positive rates fall back to 48 kHz.
func ClampSampleRate(rate float64) float64 {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return SampleRate48k
	}
	if rate < MinSampleRate {
		return MinSampleRate
	}
	if rate > MaxSampleRate {
		return MaxSampleRate
	}
	return rate
}

// ValidSampleRate reports whether rate is finite and within the supported range.
func ValidSampleRate(rate float64) bool {
	return !math.IsNaN(rate) && rate >= MinSampleRate && rate <= MaxSampleRate
}

// NearestStandardSampleRate returns the standard rate closest to rate.
func NearestStandardSampleRate(rate float64) float64 {
	rate = ClampSampleRate(rate)
	best := standardSampleRates[0]
	for _, sr := range standardSampleRates[1:] {
		if math.Abs(sr-rate) < math.Abs(best-rate) {
			best = sr
		}
	}
	return best
}

// Nyquist returns half the sample rate.
func Nyquist(rate float64) float64 {
	return rate * 0.5
}

// ClampFrequency keeps a design frequency strictly inside (0, Nyquist).
func ClampFrequency(freq, rate float64) float64 {
	upper := 0.49 * rate
	if math.IsNaN(freq) || freq < minDesignFrequency {
		return minDesignFrequency
	}
	if freq > upper {
		return upper
	}
	return freq
}
