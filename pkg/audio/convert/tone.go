// ABOUTME: Sine test tone generator in any negotiated format
// ABOUTME: Produces whole frames of a constant tone on every channel
package convert

import (
	"fmt"
	"math"

	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio"
	goaudio "github.com/go-audio/audio"
)

// DefaultToneFrequency is A4
const DefaultToneFrequency = 440.0

// Tone generates a sine wave at half volume in the format of d
type Tone struct {
	format    audio.Descriptor
	frequency float64
	frame     uint64

	buf *goaudio.FloatBuffer
}

// NewTone creates a tone generator. A frequency <= 0 uses DefaultToneFrequency.
func NewTone(d audio.Descriptor, frequency float64) (*Tone, error) {
	if d.UnitSize == 0 || d.Rate <= 0 {
		return nil, fmt.Errorf("%w: tone needs a parsed format, got %s", ErrUnsupportedConversion, d)
	}
	if frequency <= 0 {
		frequency = DefaultToneFrequency
	}

	return &Tone{
		format:    d,
		frequency: frequency,
		buf:       &goaudio.FloatBuffer{Format: BufferFormat(d)},
	}, nil
}

// Read fills p with as many whole frames as fit and returns the number
// of bytes written
func (t *Tone) Read(p []byte) (int, error) {
	frames := len(p) / t.format.UnitSize
	if frames == 0 {
		return 0, nil
	}

	channels := t.format.Channels
	t.buf.Data = grow(t.buf.Data, frames*channels)
	for i := 0; i < frames; i++ {
		ts := float64(t.frame+uint64(i)) / float64(t.format.Rate)
		sample := 0.5 * math.Sin(2*math.Pi*t.frequency*ts)
		for ch := 0; ch < channels; ch++ {
			t.buf.Data[i*channels+ch] = sample
		}
	}
	t.frame += uint64(frames)

	packBuffer(p, t.buf, t.format)
	return frames * t.format.UnitSize, nil
}

// Format returns the tone's format
func (t *Tone) Format() audio.Descriptor { return t.format }
