package runtime

// Func allows using a function as a Runtime.
type Func func(in, out [][]float32) bool

func (f Func) Process(in, out [][]float32) bool {
	return f(in, out)
}

// Gain scales every sample by a fixed factor.
type Gain float32

func (g Gain) Process(in, out [][]float32) bool {
	if len(out) < len(in) {
		return false
	}
	for ch, src := range in {
		dst := out[ch]
		if len(dst) < len(src) {
			return false
		}
		for i, x := range src {
			dst[i] = x * float32(g)
		}
	}
	return true
}

// Chain runs runtimes in series. The first stage reads in and writes out;
// later stages work on out in place.
type Chain struct {
	stages []Runtime
	name   string
	bypass bool
}

// NewChain creates a chain of the given stages.
func NewChain(name string, stages ...Runtime) *Chain {
	return &Chain{
		name:   name,
		stages: append([]Runtime(nil), stages...),
	}
}

// Add appends a stage. Chains are built on the control side before they are
// published, never after.
func (c *Chain) Add(stage Runtime) *Chain {
	c.stages = append(c.stages, stage)
	return c
}

// Process satisfies Runtime. A bypassed or empty chain copies in to out.
func (c *Chain) Process(in, out [][]float32) bool {
	if c.bypass || len(c.stages) == 0 {
		return copyBlock(in, out)
	}
	if !c.stages[0].Process(in, out) {
		return false
	}
	for _, stage := range c.stages[1:] {
		if !stage.Process(out, out) {
			return false
		}
	}
	return true
}

// SetBypass sets the bypass state of the chain.
func (c *Chain) SetBypass(bypass bool) {
	c.bypass = bypass
}

// Len returns the number of stages.
func (c *Chain) Len() int {
	return len(c.stages)
}

// Name returns the chain's name.
func (c *Chain) Name() string {
	return c.name
}

// Close closes every stage that implements Closer and returns the first
// error.
func (c *Chain) Close() error {
	var first error
	for _, stage := range c.stages {
		if cl, ok := stage.(Closer); ok {
			if err := cl.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

func copyBlock(in, out [][]float32) bool {
	if len(out) < len(in) {
		return false
	}
	for ch, src := range in {
		if len(out[ch]) < len(src) {
			return false
		}
		copy(out[ch], src)
	}
	return true
}
