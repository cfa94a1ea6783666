package filter

import (
	"fmt"
	"math"

	"github.com/justyntemme/rtdsp/pkg/dsp"
)

// MaxButterworthOrder is the highest order Butterworth accepts.
const MaxButterworthOrder = 16

// Kind selects the response of a Butterworth design.
type Kind int

const (
	KindLowpass Kind = iota
	KindHighpass
)

func (k Kind) String() string {
	switch k {
	case KindLowpass:
		return "lowpass"
	case KindHighpass:
		return "highpass"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ButterworthQ returns the Q of second-order section k of an order n design.
func ButterworthQ(n, k int) float64 {
	return 1 / (2 * math.Sin(float64(2*k+1)*dsp.Pi/float64(2*n)))
}

// Butterworth designs an order n Butterworth filter as n/2 biquad sections,
// followed by a first-order section when n is odd.
func Butterworth(kind Kind, order int, sampleRate, freq float64) ([]Coefficients, error) {
	if order < 1 || order > MaxButterworthOrder {
		return nil, fmt.Errorf("butterworth: order must be in [1, %d], got %d: %w",
			MaxButterworthOrder, order, ErrInvalidArgument)
	}
	if !dsp.ValidSampleRate(sampleRate) {
		return nil, fmt.Errorf("butterworth: sample rate %v out of range: %w", sampleRate, ErrInvalidArgument)
	}
	if !(freq > 0) || freq >= dsp.Nyquist(sampleRate) {
		return nil, fmt.Errorf("butterworth: frequency must be in (0, %v), got %v: %w",
			dsp.Nyquist(sampleRate), freq, ErrInvalidArgument)
	}

	sections := make([]Coefficients, 0, (order+1)/2)
	for k := 0; k < order/2; k++ {
		q := ButterworthQ(order, k)
		switch kind {
		case KindLowpass:
			sections = append(sections, Lowpass(sampleRate, freq, q))
		case KindHighpass:
			sections = append(sections, Highpass(sampleRate, freq, q))
		default:
			return nil, fmt.Errorf("butterworth: unknown kind %v: %w", kind, ErrInvalidArgument)
		}
	}
	if order%2 == 1 {
		switch kind {
		case KindLowpass:
			sections = append(sections, FirstOrderLowpass(sampleRate, freq))
		case KindHighpass:
			sections = append(sections, FirstOrderHighpass(sampleRate, freq))
		default:
			return nil, fmt.Errorf("butterworth: unknown kind %v: %w", kind, ErrInvalidArgument)
		}
	}
	return sections, nil
}
