// ABOUTME: Opus audio encoder
// ABOUTME: Encodes float32 or signed 16-bit native frames into 20ms Opus packets
package encode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio"
	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio/caps"
	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio/decode"
	"gopkg.in/hraban/opus.v2"
)

// maxPacket is the largest Opus packet we produce
const maxPacket = 4000

// ErrUnsupportedFormat means the encoder cannot take the raw format
var ErrUnsupportedFormat = errors.New("unsupported encoder input format")

// OpusCaps returns the raw formats the Opus encoder accepts, best first
func OpusCaps() caps.FilterSet {
	base := func(enc audio.Encoding, width int) *caps.Filter {
		return caps.NewFilter(enc).
			Set(caps.FieldRate, caps.List(decode.OpusRates...)).
			Set(caps.FieldChannels, caps.Range(1, 2)).
			Set(caps.FieldWidth, caps.Fixed(width)).
			Set(caps.FieldEndianness, caps.Fixed(int(audio.NativeEndian)))
	}

	return caps.FilterSet{
		base(audio.EncodingFloat, 32),
		base(audio.EncodingInteger, 16).
			Set(caps.FieldDepth, caps.Fixed(16)).
			Set(caps.FieldSigned, caps.Bool(true)),
	}
}

// Opus encodes raw frames to Opus packets
type Opus struct {
	encoder   *opus.Encoder
	format    audio.Descriptor
	frameSize int
	pending   []byte
}

// NewOpus creates an Opus encoder taking frames in d
func NewOpus(d audio.Descriptor) (*Opus, error) {
	if !opusInput(d) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, d)
	}

	encoder, err := opus.NewEncoder(d.Rate, d.Channels, opus.AppAudio)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus encoder: %w", err)
	}

	return &Opus{
		encoder: encoder,
		format:  d,
		// Opus frame size depends on sample rate
		frameSize: d.Rate / 50, // 20ms frame
	}, nil
}

func opusInput(d audio.Descriptor) bool {
	if !slices.Contains(decode.OpusRates, d.Rate) || d.Channels < 1 || d.Channels > 2 {
		return false
	}
	if d.Endianness != audio.NativeEndian {
		return false
	}
	if d.IsFloat() {
		return d.Width == 32
	}
	return d.Width == 16 && d.Depth == 16 && d.Signed
}

// Format returns the accepted frame layout
func (e *Opus) Format() audio.Descriptor { return e.format }

// FrameSize returns the number of frames in one packet
func (e *Opus) FrameSize() int { return e.frameSize }

// Encode appends frames to the pending input and returns a packet for
// every complete 20ms frame. Trailing partial frames stay pending.
func (e *Opus) Encode(frames []byte) ([][]byte, error) {
	e.pending = append(e.pending, frames...)

	chunk := e.frameSize * e.format.UnitSize
	var packets [][]byte
	for len(e.pending) >= chunk {
		packet, err := e.encodeChunk(e.pending[:chunk])
		if err != nil {
			return packets, err
		}
		packets = append(packets, packet)
		e.pending = e.pending[chunk:]
	}

	// Keep the remainder in a fresh slice so the buffer does not grow forever
	e.pending = slices.Clone(e.pending)
	return packets, nil
}

func (e *Opus) encodeChunk(chunk []byte) ([]byte, error) {
	samples := e.frameSize * e.format.Channels
	data := make([]byte, maxPacket)

	var n int
	var err error
	if e.format.IsFloat() {
		pcm := make([]float32, samples)
		for i := range pcm {
			pcm[i] = math.Float32frombits(binary.NativeEndian.Uint32(chunk[i*4:]))
		}
		n, err = e.encoder.EncodeFloat32(pcm, data)
	} else {
		pcm := make([]int16, samples)
		for i := range pcm {
			pcm[i] = int16(binary.NativeEndian.Uint16(chunk[i*2:]))
		}
		n, err = e.encoder.Encode(pcm, data)
	}
	if err != nil {
		return nil, fmt.Errorf("opus encode error: %w", err)
	}

	return data[:n], nil
}

// Pending returns the number of buffered frames not yet encoded
func (e *Opus) Pending() int {
	return len(e.pending) / e.format.UnitSize
}

// Close releases resources
func (e *Opus) Close() error {
	return nil
}
