// Package buffer provides memory layouts for real-time audio blocks.
package buffer

import (
	"fmt"
	"unsafe"

	"github.com/docker/go-units"
	"github.com/klauspost/cpuid"

	"github.com/justyntemme/rtdsp/pkg/dsp"
)

// FallbackAlignment is used when the cache line size cannot be detected.
const FallbackAlignment = 64

// DefaultAlignment returns the detected cache line size in bytes.
func DefaultAlignment() int {
	if n := cpuid.CPU.CacheLine; n > 0 && dsp.IsPowerOfTwo(n) {
		return n
	}
	return FallbackAlignment
}

// AlignedBuffer is a slice whose first element starts on an alignment
// boundary, so adjacent blocks owned by different goroutines never share a
// cache line at their start.
type AlignedBuffer[T any] struct {
	data      []T
	alignment int
}

type alignedConfig struct {
	alignment int
}

// AlignedOption configures NewAligned.
type AlignedOption func(c *alignedConfig)

// WithAlignment overrides the alignment in bytes. It must be a power of two.
func WithAlignment(n int) AlignedOption {
	return func(c *alignedConfig) {
		c.alignment = n
	}
}

// NewAligned allocates n elements starting on an aligned address.
func NewAligned[T any](n int, options ...AlignedOption) *AlignedBuffer[T] {
	c := alignedConfig{alignment: DefaultAlignment()}
	for _, o := range options {
		o(&c)
	}
	if !dsp.IsPowerOfTwo(c.alignment) {
		panic(fmt.Sprintf("buffer: alignment %d is not a power of two", c.alignment))
	}
	if n < 0 {
		panic(fmt.Sprintf("buffer: negative length %d", n))
	}

	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 || n == 0 {
		return &AlignedBuffer[T]{data: make([]T, n), alignment: c.alignment}
	}
	if c.alignment%size != 0 {
		panic(fmt.Sprintf("buffer: alignment %d is not a multiple of element size %d", c.alignment, size))
	}

	raw := make([]T, n+c.alignment/size)
	addr := uintptr(unsafe.Pointer(&raw[0]))
	gap := dsp.AlignUp(addr, uintptr(c.alignment)) - addr
	if gap%uintptr(size) != 0 {
		panic(fmt.Sprintf("buffer: element size %d cannot reach alignment %d", size, c.alignment))
	}
	offset := int(gap) / size

	return &AlignedBuffer[T]{
		data:      raw[offset : offset+n : offset+n],
		alignment: c.alignment,
	}
}

// Data returns the aligned slice.
func (b *AlignedBuffer[T]) Data() []T {
	return b.data
}

// Len returns the number of elements.
func (b *AlignedBuffer[T]) Len() int {
	return len(b.data)
}

// Alignment returns the alignment in bytes.
func (b *AlignedBuffer[T]) Alignment() int {
	return b.alignment
}

// Address returns the address of the first element, 0 when empty.
func (b *AlignedBuffer[T]) Address() uintptr {
	if len(b.data) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b.data[0]))
}

// Aligned reports whether the first element sits on the alignment boundary.
func (b *AlignedBuffer[T]) Aligned() bool {
	return dsp.IsAligned(b.Address(), uintptr(b.alignment))
}

// Bytes returns the size of the aligned region in bytes.
func (b *AlignedBuffer[T]) Bytes() int {
	var zero T
	return len(b.data) * int(unsafe.Sizeof(zero))
}

// Clear zeroes every element.
func (b *AlignedBuffer[T]) Clear() {
	clear(b.data)
}

func (b *AlignedBuffer[T]) String() string {
	return fmt.Sprintf("AlignedBuffer[%d elems, %s, align %d]",
		len(b.data), units.BytesSize(float64(b.Bytes())), b.alignment)
}

// NewAlignedChannels returns one aligned block of frames samples per channel.
func NewAlignedChannels(channels, frames int, options ...AlignedOption) [][]float32 {
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = NewAligned[float32](frames, options...).Data()
	}
	return out
}
