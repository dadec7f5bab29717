// ABOUTME: Tests for the test tone generator
// ABOUTME: Tests frame alignment, amplitude and format validation
package convert

import (
	"math"
	"testing"

	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio"
)

func TestToneReadWholeFrames(t *testing.T) {
	tone, err := NewTone(intDesc(16, 16, true, audio.LittleEndian, 2), 0)
	if err != nil {
		t.Fatalf("NewTone() failed: %v", err)
	}

	buf := make([]byte, 10)
	n, err := tone.Read(buf)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if n != 8 {
		t.Errorf("expected 8 bytes, got %d", n)
	}

	// first frame is the zero crossing
	if buf[0] != 0 || buf[1] != 0 {
		t.Errorf("expected silence at t=0, got %v", buf[:2])
	}
}

func TestToneAmplitude(t *testing.T) {
	d := floatDesc(32, 1)
	d.Rate = 4400
	tone, err := NewTone(d, 1100)
	if err != nil {
		t.Fatalf("NewTone() failed: %v", err)
	}

	// a quarter period is one frame at 4400 Hz
	buf := make([]byte, 8)
	if _, err := tone.Read(buf); err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	peak := math.Float32frombits(audio.NativeEndian.ByteOrder().Uint32(buf[4:]))
	if math.Abs(float64(peak)-0.5) > 1e-6 {
		t.Errorf("expected peak 0.5, got %f", peak)
	}
}

func TestToneRejectsUnparsedFormat(t *testing.T) {
	if _, err := NewTone(audio.Descriptor{}, 440); err == nil {
		t.Error("expected error for zero descriptor")
	}
}
