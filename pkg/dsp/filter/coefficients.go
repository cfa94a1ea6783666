// Package filter provides IIR filter design and processing.
package filter

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/justyntemme/rtdsp/pkg/dsp"
)

// ErrInvalidArgument is wrapped by every design error.
var ErrInvalidArgument = errors.New("filter: invalid argument")

// Coefficients of one second-order section, normalized so that a0 == 1.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward
	A1, A2     float64 // feedback
}

// Identity passes the signal through unchanged.
var Identity = Coefficients{B0: 1}

// Normalize divides every coefficient by a0.
func Normalize(b0, b1, b2, a0, a1, a2 float64) Coefficients {
	inv := 1.0 / a0
	return Coefficients{
		B0: b0 * inv,
		B1: b1 * inv,
		B2: b2 * inv,
		A1: a1 * inv,
		A2: a2 * inv,
	}
}

// Response evaluates H(z) at z = e^{jw} for the given frequency.
func (c Coefficients) Response(freq, sampleRate float64) complex128 {
	w := dsp.TwoPi * freq / sampleRate
	z1 := cmplx.Exp(complex(0, -w))
	z2 := z1 * z1
	num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
	den := 1 + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2
	return num / den
}

// MagnitudeDB returns the magnitude response in dB.
func (c Coefficients) MagnitudeDB(freq, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freq, sampleRate)))
}

// Stable reports whether both poles lie inside the unit circle.
func (c Coefficients) Stable() bool {
	return math.Abs(c.A2) < 1 && math.Abs(c.A1) < 1+c.A2
}

func clampQ(q float64) float64 {
	if math.IsNaN(q) || q < dsp.MinQ {
		return dsp.MinQ
	}
	if q > dsp.MaxQ {
		return dsp.MaxQ
	}
	return q
}

// rbj holds the terms shared by the cookbook designs.
type rbj struct {
	cos, alpha float64
}

func newRBJ(sampleRate, freq, q float64) rbj {
	freq = dsp.ClampFrequency(freq, sampleRate)
	omega := dsp.TwoPi * freq / sampleRate
	return rbj{
		cos:   math.Cos(omega),
		alpha: math.Sin(omega) / (2.0 * clampQ(q)),
	}
}

// Lowpass designs a second-order lowpass.
func Lowpass(sampleRate, freq, q float64) Coefficients {
	r := newRBJ(sampleRate, freq, q)
	return Normalize(
		(1-r.cos)/2, 1-r.cos, (1-r.cos)/2,
		1+r.alpha, -2*r.cos, 1-r.alpha,
	)
}

// Highpass designs a second-order highpass.
func Highpass(sampleRate, freq, q float64) Coefficients {
	r := newRBJ(sampleRate, freq, q)
	return Normalize(
		(1+r.cos)/2, -(1 + r.cos), (1+r.cos)/2,
		1+r.alpha, -2*r.cos, 1-r.alpha,
	)
}

// Bandpass designs a constant 0 dB peak gain bandpass.
func Bandpass(sampleRate, freq, q float64) Coefficients {
	r := newRBJ(sampleRate, freq, q)
	return Normalize(
		r.alpha, 0, -r.alpha,
		1+r.alpha, -2*r.cos, 1-r.alpha,
	)
}

// Notch designs a band-reject filter.
func Notch(sampleRate, freq, q float64) Coefficients {
	r := newRBJ(sampleRate, freq, q)
	return Normalize(
		1, -2*r.cos, 1,
		1+r.alpha, -2*r.cos, 1-r.alpha,
	)
}

// Allpass designs a second-order allpass.
func Allpass(sampleRate, freq, q float64) Coefficients {
	r := newRBJ(sampleRate, freq, q)
	return Normalize(
		1-r.alpha, -2*r.cos, 1+r.alpha,
		1+r.alpha, -2*r.cos, 1-r.alpha,
	)
}

// PeakingEQ designs a bell filter with gainDB at freq.
func PeakingEQ(sampleRate, freq, q, gainDB float64) Coefficients {
	r := newRBJ(sampleRate, freq, q)
	a := math.Pow(10, gainDB/40)
	return Normalize(
		1+r.alpha*a, -2*r.cos, 1-r.alpha*a,
		1+r.alpha/a, -2*r.cos, 1-r.alpha/a,
	)
}

// LowShelf designs a low shelf with gainDB below freq.
func LowShelf(sampleRate, freq, q, gainDB float64) Coefficients {
	r := newRBJ(sampleRate, freq, q)
	a := math.Pow(10, gainDB/40)
	k := 2 * math.Sqrt(a) * r.alpha
	return Normalize(
		a*((a+1)-(a-1)*r.cos+k),
		2*a*((a-1)-(a+1)*r.cos),
		a*((a+1)-(a-1)*r.cos-k),
		(a+1)+(a-1)*r.cos+k,
		-2*((a-1)+(a+1)*r.cos),
		(a+1)+(a-1)*r.cos-k,
	)
}

// HighShelf designs a high shelf with gainDB above freq.
func HighShelf(sampleRate, freq, q, gainDB float64) Coefficients {
	r := newRBJ(sampleRate, freq, q)
	a := math.Pow(10, gainDB/40)
	k := 2 * math.Sqrt(a) * r.alpha
	return Normalize(
		a*((a+1)+(a-1)*r.cos+k),
		-2*a*((a-1)+(a+1)*r.cos),
		a*((a+1)+(a-1)*r.cos-k),
		(a+1)-(a-1)*r.cos+k,
		2*((a-1)-(a+1)*r.cos),
		(a+1)-(a-1)*r.cos-k,
	)
}

// FirstOrderLowpass designs a bilinear one-pole lowpass. B2 and A2 are zero.
func FirstOrderLowpass(sampleRate, freq float64) Coefficients {
	k := math.Tan(dsp.Pi * dsp.ClampFrequency(freq, sampleRate) / sampleRate)
	return Normalize(k, k, 0, 1+k, k-1, 0)
}

// FirstOrderHighpass designs a bilinear one-pole highpass.
func FirstOrderHighpass(sampleRate, freq float64) Coefficients {
	k := math.Tan(dsp.Pi * dsp.ClampFrequency(freq, sampleRate) / sampleRate)
	return Normalize(1, -1, 0, 1+k, k-1, 0)
}
