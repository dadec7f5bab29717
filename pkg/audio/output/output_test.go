// ABOUTME: Audio output tests
// ABOUTME: Verifies advertised formats and format mapping without opening a device
package output

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio"
	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio/caps"
	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio/negotiate"
	"github.com/ebitengine/oto/v3"
)

func TestOtoImplementsOutput(t *testing.T) {
	var _ Output = (*Oto)(nil)
}

func format(enc audio.Encoding, channels, width int, signed bool, e audio.Endianness) audio.Descriptor {
	pos, _ := audio.DefaultPositions(channels)
	d := audio.Descriptor{
		Encoding:   enc,
		Channels:   channels,
		Rate:       48000,
		Width:      width,
		Signed:     signed,
		Endianness: e,
		Positions:  pos,
		UnitSize:   audio.UnitSize(width, channels),
	}
	if enc == audio.EncodingInteger {
		d.Depth = width
	}
	return d
}

func TestOtoFormat(t *testing.T) {
	tests := []struct {
		name    string
		d       audio.Descriptor
		want    oto.Format
		wantErr bool
	}{
		{"float32le", format(audio.EncodingFloat, 2, 32, false, audio.LittleEndian), oto.FormatFloat32LE, false},
		{"s16le", format(audio.EncodingInteger, 2, 16, true, audio.LittleEndian), oto.FormatSignedInt16LE, false},
		{"u8 mono", format(audio.EncodingInteger, 1, 8, false, audio.NativeEndian), oto.FormatUnsignedInt8, false},
		{"s16be", format(audio.EncodingInteger, 2, 16, true, audio.BigEndian), 0, true},
		{"u16le", format(audio.EncodingInteger, 2, 16, false, audio.LittleEndian), 0, true},
		{"s24le", format(audio.EncodingInteger, 2, 24, true, audio.LittleEndian), 0, true},
		{"float64", format(audio.EncodingFloat, 2, 64, false, audio.LittleEndian), 0, true},
		{"surround", format(audio.EncodingInteger, 6, 16, true, audio.LittleEndian), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := otoFormat(tt.d)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("expected ErrUnsupportedFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("otoFormat() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected format %d, got %d", tt.want, got)
			}
		})
	}
}

func TestOtoCapsNegotiation(t *testing.T) {
	if audio.NativeEndian != audio.LittleEndian {
		t.Skip("float output is little-endian only")
	}

	tests := []struct {
		name     string
		in       audio.Descriptor
		tier     negotiate.Tier
		expected audio.Descriptor
	}{
		{
			name:     "s16le plays as is",
			in:       format(audio.EncodingInteger, 2, 16, true, audio.LittleEndian),
			tier:     negotiate.TierLossless,
			expected: format(audio.EncodingInteger, 2, 16, true, audio.LittleEndian),
		},
		{
			name:     "s24 goes to float",
			in:       format(audio.EncodingInteger, 2, 24, true, audio.LittleEndian),
			tier:     negotiate.TierLossless,
			expected: format(audio.EncodingFloat, 2, 32, false, audio.LittleEndian),
		},
		{
			name:     "surround is down-mixed",
			in:       format(audio.EncodingInteger, 6, 16, true, audio.LittleEndian),
			tier:     negotiate.TierFewerChannels,
			expected: format(audio.EncodingInteger, 2, 16, true, audio.LittleEndian),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := negotiate.New(negotiate.Config{})
			res, err := n.Negotiate(negotiate.DirectionSink, tt.in, NewOto().Caps())
			if err != nil {
				t.Fatalf("Negotiate() failed: %v", err)
			}
			if res.Tier != tt.tier {
				t.Errorf("expected tier %s, got %s", tt.tier, res.Tier)
			}
			if !res.Descriptor.Equal(tt.expected) {
				t.Errorf("expected %s, got %s", tt.expected, res.Descriptor)
			}
			if _, err := otoFormat(res.Descriptor); err != nil {
				t.Errorf("negotiated format is not playable: %v", err)
			}
		})
	}
}

func TestOtoWriteBeforeOpen(t *testing.T) {
	out := NewOto()
	if _, err := out.Write(make([]byte, 4)); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}
}

func TestOtoOpenRejectsUnsupported(t *testing.T) {
	out := NewOto()
	err := out.Open(format(audio.EncodingInteger, 2, 24, true, audio.LittleEndian))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestVolume(t *testing.T) {
	out := NewOto()

	out.SetVolume(150)
	if out.GetVolume() != 100 {
		t.Errorf("expected volume clamped to 100, got %d", out.GetVolume())
	}
	out.SetVolume(-5)
	if out.GetVolume() != 0 {
		t.Errorf("expected volume clamped to 0, got %d", out.GetVolume())
	}

	out.SetVolume(50)
	out.SetMuted(true)
	if !out.IsMuted() || volumeMultiplier(out.GetVolume(), out.IsMuted()) != 0 {
		t.Error("expected muted output to have zero volume")
	}
	if volumeMultiplier(50, false) != 0.5 {
		t.Errorf("expected 0.5, got %f", volumeMultiplier(50, false))
	}
}

// fakeDevice stands in for an oto context and drains every player
type fakeDevice struct {
	mu      sync.Mutex
	players int
	resumes int
	played  int64
	drained sync.WaitGroup
}

func (d *fakeDevice) NewPlayer(r io.Reader) devicePlayer {
	d.mu.Lock()
	d.players++
	d.mu.Unlock()
	return &fakePlayer{device: d, r: r}
}

func (d *fakeDevice) Suspend() error { return nil }

func (d *fakeDevice) Resume() error {
	d.resumes++
	return nil
}

type fakePlayer struct {
	device *fakeDevice
	r      io.Reader
}

func (p *fakePlayer) Play() {
	p.device.drained.Add(1)
	go func() {
		defer p.device.drained.Done()
		n, _ := io.Copy(io.Discard, p.r)
		p.device.mu.Lock()
		p.device.played += n
		p.device.mu.Unlock()
	}()
}

func (p *fakePlayer) SetVolume(volume float64) {}

func (p *fakePlayer) Close() error { return nil }

func newFakeOto() (*Oto, *fakeDevice) {
	dev := &fakeDevice{}
	out := NewOto()
	out.newDevice = func(op *oto.NewContextOptions) (deviceContext, error) {
		return dev, nil
	}
	return out, dev
}

func TestOtoCapsAfterOpen(t *testing.T) {
	out, _ := newFakeOto()
	s16 := format(audio.EncodingInteger, 2, 16, true, audio.LittleEndian)

	if len(out.Caps()) != 3 {
		t.Fatalf("expected 3 formats before Open, got %d", len(out.Caps()))
	}
	if err := out.Open(s16); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer out.Close()

	got := out.Caps()
	if len(got) != 1 || !got[0].Equal(caps.FromDescriptor(s16)) {
		t.Errorf("expected only the open format, got %s", got)
	}

	// every advertised format can be opened
	n := negotiate.New(negotiate.Config{})
	res, err := n.Negotiate(negotiate.DirectionSink, format(audio.EncodingInteger, 2, 24, true, audio.LittleEndian), got)
	if err != nil {
		t.Fatalf("Negotiate() failed: %v", err)
	}
	if err := out.Open(res.Descriptor); err != nil {
		t.Errorf("advertised format %s rejected: %v", res.Descriptor, err)
	}

	if err := out.Open(format(audio.EncodingFloat, 2, 32, false, audio.LittleEndian)); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat for a different format, got %v", err)
	}
}

func TestOtoReopenAfterClose(t *testing.T) {
	out, dev := newFakeOto()
	s16 := format(audio.EncodingInteger, 2, 16, true, audio.LittleEndian)

	if err := out.Open(s16); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if _, err := out.Write(make([]byte, 4)); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen after Close, got %v", err)
	}

	if err := out.Open(s16); err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	written, err := out.Write(make([]byte, 10))
	if err != nil {
		t.Fatalf("Write() after reopen failed: %v", err)
	}
	if written != 8 {
		t.Errorf("expected 8 bytes of whole frames, got %d", written)
	}
	out.Close()
	dev.drained.Wait()

	if dev.players != 2 || dev.resumes != 1 {
		t.Errorf("expected 2 players and 1 resume, got %d and %d", dev.players, dev.resumes)
	}
	if dev.played != 8 {
		t.Errorf("expected 8 bytes played, got %d", dev.played)
	}
}
