package filter

import "math"

// Cascade runs a series of second-order sections in Direct Form II
// Transposed, with independent state per channel.
type Cascade struct {
	sections []Coefficients
	state    [][][2]float64 // [channel][section]{d0, d1}
}

// NewCascade creates a cascade for channels channels. With no sections it
// passes the signal through.
func NewCascade(channels int, sections ...Coefficients) *Cascade {
	c := &Cascade{
		sections: append([]Coefficients(nil), sections...),
		state:    make([][][2]float64, channels),
	}
	for ch := range c.state {
		c.state[ch] = make([][2]float64, len(sections))
	}
	return c
}

// Channels returns the channel count.
func (c *Cascade) Channels() int {
	return len(c.state)
}

// Sections returns a copy of the coefficients.
func (c *Cascade) Sections() []Coefficients {
	return append([]Coefficients(nil), c.sections...)
}

// Reset zeroes the delay lines.
func (c *Cascade) Reset() {
	for ch := range c.state {
		clear(c.state[ch])
	}
}

// ProcessSample filters one sample of channel ch.
func (c *Cascade) ProcessSample(ch int, x float64) float64 {
	st := c.state[ch]
	for i := range c.sections {
		s := &c.sections[i]
		d := &st[i]
		y := s.B0*x + d[0]
		d[0] = s.B1*x - s.A1*y + d[1]
		d[1] = s.B2*x - s.A2*y
		x = y
	}
	return x
}

// Process filters in into out, channel by channel. in and out may alias.
// It allocates nothing and reports false, leaving out untouched, when the
// channel counts or block lengths do not match.
func (c *Cascade) Process(in, out [][]float32) bool {
	if len(in) != len(c.state) || len(out) != len(c.state) {
		return false
	}
	for ch := range in {
		if len(out[ch]) < len(in[ch]) {
			return false
		}
	}
	for ch, src := range in {
		dst := out[ch]
		for i, x := range src {
			dst[i] = float32(c.ProcessSample(ch, float64(x)))
		}
	}
	return true
}

// MagnitudeDB returns the combined magnitude response in dB.
func (c *Cascade) MagnitudeDB(freq, sampleRate float64) float64 {
	h := complex(1, 0)
	for _, s := range c.sections {
		h *= s.Response(freq, sampleRate)
	}
	return 20 * math.Log10(math.Hypot(real(h), imag(h)))
}
