// ABOUTME: Decoder interfaces and shared helpers
// ABOUTME: Sources stream whole frames, packet decoders map one packet to frames
package decode

import (
	"errors"
	"io"

	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio"
)

// ErrInvalidFormat means a decoder cannot produce the requested format
var ErrInvalidFormat = errors.New("invalid decoder format")

// Source is a stream of raw frames in Format
type Source interface {
	io.Reader

	// Format returns the layout of the bytes returned by Read
	Format() audio.Descriptor

	// Close releases decoder resources
	Close() error
}

// PacketDecoder decodes one compressed packet at a time
type PacketDecoder interface {
	// Format returns the layout of the decoded frames
	Format() audio.Descriptor

	// Decode converts one packet to raw frames
	Decode(packet []byte) ([]byte, error)

	// Close releases decoder resources
	Close() error
}

func descriptor(enc audio.Encoding, channels, rate, width int) audio.Descriptor {
	pos, _ := audio.DefaultPositions(channels)
	d := audio.Descriptor{
		Encoding:   enc,
		Channels:   channels,
		Rate:       rate,
		Width:      width,
		Endianness: audio.NativeEndian,
		Positions:  pos,
		UnitSize:   audio.UnitSize(width, channels),
	}
	if enc == audio.EncodingInteger {
		d.Depth = width
		d.Signed = true
	}
	return d
}
