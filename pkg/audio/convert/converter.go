// ABOUTME: Reference sample converter for negotiated raw formats
// ABOUTME: Converts width, depth, signedness, byte order and int/float, no resampling or mixing
package convert

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio"
	goaudio "github.com/go-audio/audio"
)

var (
	// ErrUnsupportedConversion means the two formats need resampling or mixing
	ErrUnsupportedConversion = errors.New("unsupported conversion")

	// ErrReadOnlySource means src and dst alias but src may not be written
	ErrReadOnlySource = errors.New("source buffer is read-only")

	// ErrShortBuffer means src or dst cannot hold the requested frames
	ErrShortBuffer = errors.New("short buffer")
)

// Context converts frames from one descriptor to another. A Context owns
// scratch buffers and must not be shared between goroutines.
type Context struct {
	in, out     audio.Descriptor
	passthrough bool
	useFloat    bool
	order       []int // out channel i reads in channel order[i]; nil keeps order

	ints   *goaudio.IntBuffer
	floats *goaudio.FloatBuffer
}

// BufferFormat returns the go-audio format matching d
func BufferFormat(d audio.Descriptor) *goaudio.Format {
	return &goaudio.Format{
		NumChannels: d.Channels,
		SampleRate:  d.Rate,
	}
}

// Prepare builds a conversion context from in to out. Both descriptors
// must come from the format parser.
func Prepare(in, out audio.Descriptor) (*Context, error) {
	if in.UnitSize == 0 || out.UnitSize == 0 {
		return nil, fmt.Errorf("%w: zero frame size", ErrUnsupportedConversion)
	}
	if in.Rate != out.Rate {
		return nil, fmt.Errorf("%w: rate %d -> %d needs resampling", ErrUnsupportedConversion, in.Rate, out.Rate)
	}
	if in.Channels != out.Channels {
		return nil, fmt.Errorf("%w: %d -> %d channels needs mixing", ErrUnsupportedConversion, in.Channels, out.Channels)
	}

	c := &Context{
		in:          in,
		out:         out,
		passthrough: in.Equal(out),
		useFloat:    in.IsFloat() || out.IsFloat(),
		order:       channelOrder(in.Positions, out.Positions),
	}

	c.ints = &goaudio.IntBuffer{Format: BufferFormat(in), SourceBitDepth: 32}
	c.floats = &goaudio.FloatBuffer{Format: BufferFormat(in)}
	return c, nil
}

// In returns the input descriptor
func (c *Context) In() audio.Descriptor { return c.in }

// Out returns the output descriptor
func (c *Context) Out() audio.Descriptor { return c.out }

// Passthrough reports whether input and output formats are identical
func (c *Context) Passthrough() bool { return c.passthrough }

// Sizes returns the byte sizes of frames frames on each side
func (c *Context) Sizes(frames int) (inBytes, outBytes int) {
	return frames * c.in.UnitSize, frames * c.out.UnitSize
}

// Convert converts frames frames from src into dst. src and dst may
// overlap only when srcWritable is true.
func (c *Context) Convert(src, dst []byte, frames int, srcWritable bool) error {
	inSize, outSize := c.Sizes(frames)
	if len(src) < inSize {
		return fmt.Errorf("%w: src has %d bytes, need %d", ErrShortBuffer, len(src), inSize)
	}
	if len(dst) < outSize {
		return fmt.Errorf("%w: dst has %d bytes, need %d", ErrShortBuffer, len(dst), outSize)
	}
	if frames == 0 {
		return nil
	}
	if !srcWritable && overlaps(src[:inSize], dst[:outSize]) {
		return ErrReadOnlySource
	}

	if c.passthrough {
		copy(dst[:outSize], src[:inSize])
		return nil
	}

	samples := frames * c.in.Channels
	if c.useFloat {
		c.floats = unpackBuffer(src, c.in, c.ints, samples)
		reorder(c.floats.Data, c.floats.Format.NumChannels, c.order)
		if ints := packBuffer(dst, c.floats, c.out); ints != nil {
			c.ints.Data = ints.Data
		}
		return nil
	}

	c.ints.Data = grow(c.ints.Data, samples)
	unpackInt(c.ints.Data, src, c.in)
	reorder(c.ints.Data, c.ints.Format.NumChannels, c.order)
	packInt(dst, c.ints.Data, c.out)
	return nil
}

// Frames returns the number of frames currently held in the scratch buffer
func (c *Context) Frames() int {
	if c.useFloat {
		return c.floats.NumFrames()
	}
	return c.ints.NumFrames()
}

// overlaps reports whether a and b share any byte
func overlaps(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	aStart := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	bStart := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	return aStart < bStart+uintptr(len(b)) && bStart < aStart+uintptr(len(a))
}

func grow[T any](buf []T, n int) []T {
	if cap(buf) < n {
		return make([]T, n)
	}
	return buf[:n]
}

// channelOrder maps output channels to input channels when out is a
// permutation of in. Any other pairing keeps channel order.
func channelOrder(in, out []audio.ChannelPosition) []int {
	if len(in) != len(out) {
		return nil
	}

	order := make([]int, len(out))
	identity := true
	for i, p := range out {
		j := indexOf(in, p)
		if j < 0 || p == audio.PositionNone {
			return nil
		}
		order[i] = j
		if i != j {
			identity = false
		}
	}
	if identity {
		return nil
	}
	return order
}

func indexOf(ps []audio.ChannelPosition, p audio.ChannelPosition) int {
	for i, q := range ps {
		if q == p {
			return i
		}
	}
	return -1
}

func reorder[T any](data []T, channels int, order []int) {
	if order == nil {
		return
	}
	frame := make([]T, channels)
	for off := 0; off+channels <= len(data); off += channels {
		copy(frame, data[off:off+channels])
		for i, j := range order {
			data[off+i] = frame[j]
		}
	}
}
