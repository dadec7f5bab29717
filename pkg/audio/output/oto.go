// ABOUTME: Oto-based audio output implementation
// ABOUTME: Plays 8-bit unsigned, 16-bit signed LE or float32 LE frames with player volume
package output

import (
	"fmt"
	"io"
	"log"

	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio"
	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio/caps"
	"github.com/ebitengine/oto/v3"
)

// otoMaxChannels is what oto can mix down to the device
const otoMaxChannels = 2

// deviceContext is the part of an oto context the output uses
type deviceContext interface {
	NewPlayer(r io.Reader) devicePlayer
	Suspend() error
	Resume() error
}

// devicePlayer is the part of an oto player the output uses
type devicePlayer interface {
	Play()
	SetVolume(volume float64)
	Close() error
}

type otoDevice struct {
	*oto.Context
}

func (d otoDevice) NewPlayer(r io.Reader) devicePlayer {
	return d.Context.NewPlayer(r)
}

func newOtoDevice(op *oto.NewContextOptions) (deviceContext, error) {
	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-readyChan
	return otoDevice{ctx}, nil
}

// Oto output implementation using oto library
type Oto struct {
	newDevice  func(op *oto.NewContextOptions) (deviceContext, error)
	otoCtx     deviceContext
	player     devicePlayer
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	format     audio.Descriptor
	volume     int
	muted      bool
	ready      bool
}

// NewOto creates a new Oto output
func NewOto() *Oto {
	return &Oto{
		newDevice: newOtoDevice,
		volume:    100,
	}
}

// Caps returns float32, then signed 16-bit, then unsigned 8-bit, all
// little-endian with one or two channels at any rate. Once a device
// context exists only its format is returned.
func (o *Oto) Caps() caps.FilterSet {
	// oto allows one context per process and it cannot be reconfigured
	if o.otoCtx != nil {
		return caps.FilterSet{caps.FromDescriptor(o.format)}
	}

	rate, channels := caps.Range(1, caps.MaxRate), caps.Range(1, otoMaxChannels)
	base := func(enc audio.Encoding, width int) *caps.Filter {
		return caps.NewFilter(enc).
			Set(caps.FieldRate, rate).
			Set(caps.FieldChannels, channels).
			Set(caps.FieldWidth, caps.Fixed(width)).
			Set(caps.FieldEndianness, caps.Fixed(int(audio.LittleEndian)))
	}

	return caps.FilterSet{
		base(audio.EncodingFloat, 32),
		base(audio.EncodingInteger, 16).
			Set(caps.FieldDepth, caps.Fixed(16)).
			Set(caps.FieldSigned, caps.Bool(true)),
		base(audio.EncodingInteger, 8).
			Set(caps.FieldDepth, caps.Fixed(8)).
			Set(caps.FieldSigned, caps.Bool(false)),
	}
}

// otoFormat maps a descriptor to an oto sample format
func otoFormat(d audio.Descriptor) (oto.Format, error) {
	switch {
	case d.Channels < 1 || d.Channels > otoMaxChannels:
		return 0, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, d.Channels)
	case d.IsFloat() && d.Width == 32 && d.Endianness == audio.LittleEndian:
		return oto.FormatFloat32LE, nil
	case !d.IsFloat() && d.Width == 16 && d.Depth == 16 && d.Signed && d.Endianness == audio.LittleEndian:
		return oto.FormatSignedInt16LE, nil
	case !d.IsFloat() && d.Width == 8 && d.Depth == 8 && !d.Signed:
		return oto.FormatUnsignedInt8, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, d)
	}
}

// Open initializes the output device. After Close the same format can
// be opened again; any other format is rejected once a context exists.
func (o *Oto) Open(d audio.Descriptor) error {
	format, err := otoFormat(d)
	if err != nil {
		return err
	}

	if o.otoCtx != nil {
		if !o.format.Equal(d) {
			return fmt.Errorf("%w: cannot reinitialize oto from %s to %s", ErrUnsupportedFormat, o.format, d)
		}
		if o.ready {
			log.Printf("Audio output already initialized with same format, reusing context")
			return nil
		}

		// Closed earlier: resume the context and start a new player
		if err := o.otoCtx.Resume(); err != nil {
			return fmt.Errorf("failed to resume oto context: %w", err)
		}
		o.startPlayer()
		log.Printf("Audio output reopened: %s", d)
		return nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   d.Rate,
		ChannelCount: d.Channels,
		Format:       format,
	}

	ctx, err := o.newDevice(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	o.otoCtx = ctx
	o.format = d
	o.startPlayer()

	log.Printf("Audio output initialized: %s", d)

	return nil
}

// startPlayer creates the pipe and the persistent player reading from it
func (o *Oto) startPlayer() {
	o.pipeReader, o.pipeWriter = io.Pipe()
	o.player = o.otoCtx.NewPlayer(o.pipeReader)
	o.player.SetVolume(volumeMultiplier(o.volume, o.muted))
	o.player.Play()
	o.ready = true
}

// Write plays whole frames (blocks until written)
func (o *Oto) Write(frames []byte) (int, error) {
	if !o.ready {
		return 0, ErrNotOpen
	}

	frames = frames[:len(frames)/o.format.UnitSize*o.format.UnitSize]

	// Write to pipe (which feeds the persistent player)
	n, err := o.pipeWriter.Write(frames)
	if err != nil {
		return n, fmt.Errorf("pipe write failed: %w", err)
	}
	return n, nil
}

// Close releases output resources
func (o *Oto) Close() error {
	if o.pipeWriter != nil {
		o.pipeWriter.Close()
		o.pipeWriter = nil
	}
	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
	if o.pipeReader != nil {
		o.pipeReader.Close()
		o.pipeReader = nil
	}
	if o.otoCtx != nil {
		o.otoCtx.Suspend()
		o.ready = false
	}
	return nil
}

// SetVolume sets the volume (0-100)
func (o *Oto) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	o.volume = volume
	if o.player != nil {
		o.player.SetVolume(volumeMultiplier(o.volume, o.muted))
	}
}

// SetMuted sets mute state
func (o *Oto) SetMuted(muted bool) {
	o.muted = muted
	if o.player != nil {
		o.player.SetVolume(volumeMultiplier(o.volume, o.muted))
	}
}

// GetVolume returns current volume
func (o *Oto) GetVolume() int {
	return o.volume
}

// IsMuted returns mute state
func (o *Oto) IsMuted() bool {
	return o.muted
}

// volumeMultiplier calculates the player volume
func volumeMultiplier(volume int, muted bool) float64 {
	if muted {
		return 0.0
	}
	return float64(volume) / 100.0
}
