// Package param provides control-rate parameter smoothing.
package param

import (
	"fmt"
	"math"
)

// Curve selects how a Smoother moves toward its target.
type Curve int

const (
	// Linear moves in equal steps.
	Linear Curve = iota
	// Exponential is a one-pole approach that settles to -60 dB in the
	// configured number of steps.
	Exponential
	// Logarithmic moves in equal ratios, which suits frequencies.
	Logarithmic
)

func (c Curve) String() string {
	switch c {
	case Linear:
		return "linear"
	case Exponential:
		return "exponential"
	case Logarithmic:
		return "logarithmic"
	default:
		return fmt.Sprintf("Curve(%d)", int(c))
	}
}

// minLogValue keeps Logarithmic away from log(0).
const minLogValue = 1e-3

// Smoother glides a value toward a target over a fixed number of steps.
// It is not safe for concurrent use.
type Smoother struct {
	curve     Curve
	steps     int
	threshold float64

	current float64
	target  float64
	step    float64 // additive for Linear and Logarithmic, pole for Exponential
	left    int
}

// NewSmoother creates a smoother that takes steps calls to Next to reach a
// new target. steps below one jumps immediately.
func NewSmoother(curve Curve, steps int) *Smoother {
	if steps < 1 {
		steps = 1
	}
	return &Smoother{
		curve:     curve,
		steps:     steps,
		threshold: 1e-4,
	}
}

// Reset jumps to value and stops smoothing.
func (s *Smoother) Reset(value float64) {
	s.current = value
	s.target = value
	s.left = 0
}

// SetTarget starts a glide from the current value to target.
func (s *Smoother) SetTarget(target float64) {
	if math.Abs(target-s.target) < s.threshold && s.left == 0 {
		return
	}
	s.target = target
	s.left = s.steps

	switch s.curve {
	case Linear:
		s.step = (target - s.current) / float64(s.steps)
	case Exponential:
		s.step = math.Exp(-6.907755278982137 / float64(s.steps)) // ln(1000)
	case Logarithmic:
		from := math.Log(math.Max(s.current, minLogValue))
		to := math.Log(math.Max(target, minLogValue))
		s.step = (to - from) / float64(s.steps)
	}
}

// Next advances one step and returns the new value.
func (s *Smoother) Next() float64 {
	if s.left == 0 {
		return s.current
	}
	s.left--
	if s.left == 0 {
		s.current = s.target
		return s.current
	}

	switch s.curve {
	case Linear:
		s.current += s.step
	case Exponential:
		s.current = s.target + (s.current-s.target)*s.step
	case Logarithmic:
		s.current = math.Exp(math.Log(math.Max(s.current, minLogValue)) + s.step)
	}
	return s.current
}

// Current returns the value without advancing.
func (s *Smoother) Current() float64 {
	return s.current
}

// Target returns the value being approached.
func (s *Smoother) Target() float64 {
	return s.target
}

// IsSmoothing reports whether Next will still change the value.
func (s *Smoother) IsSmoothing() bool {
	return s.left > 0
}

// Steps returns the glide length.
func (s *Smoother) Steps() int {
	return s.steps
}
