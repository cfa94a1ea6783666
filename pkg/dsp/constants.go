// Package dsp provides digital signal processing utilities and algorithms.
package dsp

// Common audio constants used throughout the DSP packages.
const (
	// Frequency ranges
	MinFrequency = 20.0    // 20 Hz
	MaxFrequency = 20000.0 // 20 kHz

	// Q factor ranges
	MinQ     = 0.1
	MaxQ     = 20.0
	DefaultQ = 0.7071067811865476 // Butterworth response

	// Channel counts
	Mono   = 1
	Stereo = 2

	// Common sample rates
	SampleRate32k  = 32000.0
	SampleRate44k1 = 44100.0
	SampleRate48k  = 48000.0
	SampleRate88k2 = 88200.0
	SampleRate96k  = 96000.0
	SampleRate192k = 192000.0

	// Sample rate limits accepted by ClampSampleRate
	MinSampleRate = 8000.0
	MaxSampleRate = 768000.0

	// Buffer sizes
	MinBufferSize     = 32
	DefaultBufferSize = 512
	MaxBufferSize     = 8192

	// Phase constants
	TwoPi  = 6.283185307179586
	Pi     = 3.141592653589793
	HalfPi = 1.5707963267948966

	// Small values for comparisons
	Epsilon      = 1e-6
	SmallFloat32 = 1e-30
)
