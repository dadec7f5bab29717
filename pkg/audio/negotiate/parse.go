// ABOUTME: Format parser turning resolved filters into descriptors
// ABOUTME: Validates required fields and computes the frame size
package negotiate

import (
	"fmt"

	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio"
	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio/caps"
)

// Parse converts a resolved filter into a concrete descriptor
func Parse(f *caps.Filter) (audio.Descriptor, error) {
	if !f.Encoding.Valid() {
		return audio.Descriptor{}, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, f.Encoding)
	}

	d := audio.Descriptor{
		Encoding:   f.Encoding,
		Endianness: audio.NativeEndian,
	}

	// Common fields
	var err error
	if d.Channels, err = required(f, caps.FieldChannels); err != nil {
		return audio.Descriptor{}, err
	}
	if d.Channels < 1 || d.Channels > audio.MaxChannels {
		return audio.Descriptor{}, fmt.Errorf("%w: %d channels", ErrInvalidValue, d.Channels)
	}
	if d.Positions, err = positions(f, d.Channels); err != nil {
		return audio.Descriptor{}, err
	}
	if d.Width, err = required(f, caps.FieldWidth); err != nil {
		return audio.Descriptor{}, err
	}
	if d.Rate, err = required(f, caps.FieldRate); err != nil {
		return audio.Descriptor{}, err
	}
	if d.Rate < 1 {
		return audio.Descriptor{}, fmt.Errorf("%w: rate %d", ErrInvalidValue, d.Rate)
	}

	if d.Encoding == audio.EncodingInteger {
		if err := parseInteger(f, &d); err != nil {
			return audio.Descriptor{}, err
		}
	} else if d.Width != 32 && d.Width != 64 {
		return audio.Descriptor{}, fmt.Errorf("%w: float width %d", ErrUnsupportedEncoding, d.Width)
	}

	d.UnitSize = audio.UnitSize(d.Width, d.Channels)
	return d, nil
}

func parseInteger(f *caps.Filter, d *audio.Descriptor) error {
	if d.Width < 8 || d.Width > audio.MaxIntWidth || d.Width%8 != 0 {
		return fmt.Errorf("%w: int width %d", ErrUnsupportedEncoding, d.Width)
	}

	signed, err := required(f, caps.FieldSigned)
	if err != nil {
		return err
	}
	d.Signed = signed != 0

	if d.Depth, err = required(f, caps.FieldDepth); err != nil {
		return err
	}
	if d.Depth > d.Width {
		return fmt.Errorf("%w: depth %d, width %d", ErrDepthExceedsWidth, d.Depth, d.Width)
	}
	if d.Depth < 1 {
		return fmt.Errorf("%w: depth %d", ErrInvalidValue, d.Depth)
	}

	// width 8 has no byte order
	if d.Width != 8 {
		e, err := required(f, caps.FieldEndianness)
		if err != nil {
			return err
		}
		d.Endianness = audio.Endianness(e)
		if d.Endianness != audio.LittleEndian && d.Endianness != audio.BigEndian {
			return fmt.Errorf("%w: endianness %d", ErrInvalidValue, e)
		}
	}

	return nil
}

func required(f *caps.Filter, field caps.Field) (int, error) {
	c, ok := f.Get(field)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	v, ok := c.Value()
	if !ok {
		return 0, fmt.Errorf("%w: %s is not fixed (%s)", ErrMissingField, field, c)
	}
	return v, nil
}

func positions(f *caps.Filter, channels int) ([]audio.ChannelPosition, error) {
	if p := f.Positions(); p != nil {
		if err := audio.ValidatePositions(p, channels); err != nil {
			return nil, fmt.Errorf("%w: channel positions: %v", ErrMissingField, err)
		}
		return p, nil
	}

	p, ok := audio.DefaultPositions(channels)
	if !ok {
		return nil, fmt.Errorf("%w: no channel positions for %d channels", ErrMissingField, channels)
	}
	return p, nil
}
