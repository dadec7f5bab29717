// ABOUTME: Tests for Opus decoder
// ABOUTME: Tests decoder validation and decoding of encoded packets
package decode

import (
	"errors"
	"testing"

	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio"
	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio/negotiate"
	"gopkg.in/hraban/opus.v2"
)

func TestNewOpus(t *testing.T) {
	tests := []struct {
		name     string
		rate     int
		channels int
		wantErr  bool
	}{
		{"stereo 48k", 48000, 2, false},
		{"mono 16k", 16000, 1, false},
		{"44.1k", 44100, 2, true},
		{"surround", 48000, 6, true},
		{"no channels", 48000, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := NewOpus(tt.rate, tt.channels)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFormat) {
					t.Errorf("expected ErrInvalidFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("failed to create decoder: %v", err)
			}
			defer dec.Close()

			f := dec.Format()
			if f.Encoding != audio.EncodingFloat || f.Width != 32 || f.Channels != tt.channels || f.Rate != tt.rate {
				t.Errorf("unexpected format %s", f)
			}
		})
	}
}

func TestOpusFormatParses(t *testing.T) {
	dec, err := NewOpus(48000, 2)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	// the reported format is something the negotiator accepts as is
	n := negotiate.New(negotiate.Config{})
	size, err := n.UnitSize(capsOf(dec.Format()))
	if err != nil {
		t.Fatalf("UnitSize() failed: %v", err)
	}
	if size != 8 {
		t.Errorf("expected 8 bytes per frame, got %d", size)
	}
}

func TestOpusDecode(t *testing.T) {
	const frameSize = 960 // 20ms at 48kHz

	enc, err := opus.NewEncoder(48000, 2, opus.AppAudio)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}
	packet := make([]byte, 4000)
	n, err := enc.EncodeFloat32(make([]float32, frameSize*2), packet)
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}

	dec, err := NewOpus(48000, 2)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	frames, err := dec.Decode(packet[:n])
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if len(frames) != frameSize*dec.Format().UnitSize {
		t.Errorf("expected %d bytes, got %d", frameSize*dec.Format().UnitSize, len(frames))
	}
}
