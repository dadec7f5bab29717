// ABOUTME: MP3 audio decoder
// ABOUTME: Streams MP3 as signed 16-bit little-endian stereo frames
package decode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// MP3 decodes an MP3 stream
type MP3 struct {
	decoder *mp3.Decoder
	format  audio.Descriptor
	closer  io.Closer
}

// NewMP3 creates an MP3 source reading from r. If r is an io.Closer it
// is closed by Close.
func NewMP3(r io.Reader) (*MP3, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	// go-mp3 always produces 16-bit little-endian stereo
	format := descriptor(audio.EncodingInteger, 2, dec.SampleRate(), 16)
	format.Endianness = audio.LittleEndian

	m := &MP3{decoder: dec, format: format}
	if c, ok := r.(io.Closer); ok {
		m.closer = c
	}
	return m, nil
}

// Read reads whole frames into p
func (m *MP3) Read(p []byte) (int, error) {
	p = p[:len(p)/m.format.UnitSize*m.format.UnitSize]
	if len(p) == 0 {
		return 0, nil
	}

	n, err := io.ReadFull(m.decoder, p)
	n -= n % m.format.UnitSize
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("mp3 decode error: %w", err)
	}
	return n, err
}

// Format returns the decoded frame layout
func (m *MP3) Format() audio.Descriptor { return m.format }

// Length returns the decoded stream length in frames, or -1 if unknown
func (m *MP3) Length() int64 {
	l := m.decoder.Length()
	if l < 0 {
		return -1
	}
	return l / int64(m.format.UnitSize)
}

// Close releases decoder resources
func (m *MP3) Close() error {
	if m.closer != nil {
		return m.closer.Close()
	}
	return nil
}
