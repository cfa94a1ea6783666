package filter

import "github.com/justyntemme/rtdsp/pkg/dsp"

// Biquad implements a second-order IIR filter (biquad)
// Direct Form I implementation with pre-allocated state
type Biquad struct {
	b0, b1, b2 float32
	a1, a2     float32

	// State variables (per-channel)
	x1, x2 []float32 // input delay line
	y1, y2 []float32 // output delay line
}

// NewBiquad creates a new biquad filter for the specified number of channels.
// It starts as a pass-through.
func NewBiquad(channels int) *Biquad {
	b := &Biquad{
		x1: make([]float32, channels),
		x2: make([]float32, channels),
		y1: make([]float32, channels),
		y2: make([]float32, channels),
	}
	b.SetCoefficients(Identity)
	return b
}

// Reset clears the filter state
func (b *Biquad) Reset() {
	dsp.Clear(b.x1)
	dsp.Clear(b.x2)
	dsp.Clear(b.y1)
	dsp.Clear(b.y2)
}

// SetCoefficients loads normalized coefficients. State is kept.
func (b *Biquad) SetCoefficients(c Coefficients) {
	b.b0 = float32(c.B0)
	b.b1 = float32(c.B1)
	b.b2 = float32(c.B2)
	b.a1 = float32(c.A1)
	b.a2 = float32(c.A2)
}

// Coefficients returns the loaded coefficients.
func (b *Biquad) Coefficients() Coefficients {
	return Coefficients{
		B0: float64(b.b0),
		B1: float64(b.b1),
		B2: float64(b.b2),
		A1: float64(b.a1),
		A2: float64(b.a2),
	}
}

// Channels returns the number of channels with state.
func (b *Biquad) Channels() int {
	return len(b.x1)
}

// Process applies the filter to a buffer (single channel) - no allocations
func (b *Biquad) Process(buffer []float32, channel int) {
	x1 := b.x1[channel]
	x2 := b.x2[channel]
	y1 := b.y1[channel]
	y2 := b.y2[channel]

	for i, x0 := range buffer {
		y0 := b.b0*x0 + b.b1*x1 + b.b2*x2 - b.a1*y1 - b.a2*y2

		x2, x1 = x1, x0
		y2, y1 = y1, y0

		buffer[i] = y0
	}

	b.x1[channel] = x1
	b.x2[channel] = x2
	b.y1[channel] = y1
	b.y2[channel] = y2
}

// ProcessMulti applies the filter to multiple channels - no allocations
func (b *Biquad) ProcessMulti(buffers [][]float32) {
	for ch, buffer := range buffers {
		if ch < len(b.x1) {
			b.Process(buffer, ch)
		}
	}
}

// SetLowpass configures as a lowpass filter
func (b *Biquad) SetLowpass(sampleRate, frequency, q float64) {
	b.SetCoefficients(Lowpass(sampleRate, frequency, q))
}

// SetHighpass configures as a highpass filter
func (b *Biquad) SetHighpass(sampleRate, frequency, q float64) {
	b.SetCoefficients(Highpass(sampleRate, frequency, q))
}

// SetBandpass configures as a bandpass filter (constant 0 dB peak gain)
func (b *Biquad) SetBandpass(sampleRate, frequency, q float64) {
	b.SetCoefficients(Bandpass(sampleRate, frequency, q))
}

// SetNotch configures as a notch (band-reject) filter
func (b *Biquad) SetNotch(sampleRate, frequency, q float64) {
	b.SetCoefficients(Notch(sampleRate, frequency, q))
}

// SetAllpass configures as an allpass filter
func (b *Biquad) SetAllpass(sampleRate, frequency, q float64) {
	b.SetCoefficients(Allpass(sampleRate, frequency, q))
}

// SetPeakingEQ configures as a peaking EQ filter
func (b *Biquad) SetPeakingEQ(sampleRate, frequency, q, gainDB float64) {
	b.SetCoefficients(PeakingEQ(sampleRate, frequency, q, gainDB))
}

// SetLowShelf configures as a low shelf filter
func (b *Biquad) SetLowShelf(sampleRate, frequency, q, gainDB float64) {
	b.SetCoefficients(LowShelf(sampleRate, frequency, q, gainDB))
}

// SetHighShelf configures as a high shelf filter
func (b *Biquad) SetHighShelf(sampleRate, frequency, q, gainDB float64) {
	b.SetCoefficients(HighShelf(sampleRate, frequency, q, gainDB))
}
