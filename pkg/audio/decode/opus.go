// ABOUTME: Opus audio decoder
// ABOUTME: Decodes Opus packets to native-endian float32 frames
package decode

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

// maxOpusFrame is the largest Opus frame, 120ms at 48kHz
const maxOpusFrame = 5760

// Opus decodes Opus packets
type Opus struct {
	decoder *opus.Decoder
	format  audio.Descriptor
	pcm     []float32
}

// OpusRates lists the sample rates an Opus decoder can produce
var OpusRates = []int{8000, 12000, 16000, 24000, 48000}

// NewOpus creates an Opus decoder producing rate Hz with 1 or 2 channels
func NewOpus(rate, channels int) (*Opus, error) {
	if !slices.Contains(OpusRates, rate) {
		return nil, fmt.Errorf("%w: opus cannot decode at %d Hz", ErrInvalidFormat, rate)
	}
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("%w: opus cannot decode %d channels", ErrInvalidFormat, channels)
	}

	dec, err := opus.NewDecoder(rate, channels)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus decoder: %w", err)
	}

	return &Opus{
		decoder: dec,
		format:  descriptor(audio.EncodingFloat, channels, rate, 32),
		pcm:     make([]float32, maxOpusFrame*channels),
	}, nil
}

// Decode converts one Opus packet to frames in Format
func (o *Opus) Decode(packet []byte) ([]byte, error) {
	n, err := o.decoder.DecodeFloat32(packet, o.pcm)
	if err != nil {
		return nil, fmt.Errorf("opus decode failed: %w", err)
	}

	samples := n * o.format.Channels
	out := make([]byte, samples*4)
	for i, s := range o.pcm[:samples] {
		binary.NativeEndian.PutUint32(out[i*4:], math.Float32bits(s))
	}
	return out, nil
}

// Format returns the decoded frame layout
func (o *Opus) Format() audio.Descriptor { return o.format }

// Close releases decoder resources
func (o *Opus) Close() error {
	return nil
}
