// ABOUTME: Fixation of ranged filters to single formats
// ABOUTME: Picks, field by field, the admissible value nearest the known side
package negotiate

import (
	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio"
	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio/caps"
)

// Fixate resolves the fields of f that in also carries to the admissible
// value nearest in's value, so that as little as possible is converted.
// Fields are handled one at a time in the order channels, rate,
// endianness, width, depth, signed; there is no joint optimization.
// When in has no depth, depth follows the already fixated width.
// f must not contain empty constraints. f is not modified.
func Fixate(in audio.Descriptor, f *caps.Filter) *caps.Filter {
	out := f.Clone()

	nearest(out, caps.FieldChannels, in.Channels)
	nearest(out, caps.FieldRate, in.Rate)
	nearest(out, caps.FieldEndianness, int(in.Endianness))
	nearest(out, caps.FieldWidth, in.Width)

	if in.HasDepth() {
		nearest(out, caps.FieldDepth, in.Depth)
	} else {
		target := in.Width
		if width, ok := out.Int(caps.FieldWidth); ok {
			target = width
		}
		nearest(out, caps.FieldDepth, target)
	}

	if in.Encoding == audio.EncodingInteger {
		nearest(out, caps.FieldSigned, caps.BoolInt(in.Signed))
	}

	return out
}

func nearest(f *caps.Filter, field caps.Field, target int) {
	c, ok := f.Get(field)
	if !ok || c.IsFixed() {
		return
	}
	if v, ok := c.Nearest(target); ok {
		f.Set(field, caps.Fixed(v))
	}
}

// FixateDefaults resolves whatever Fixate left open: native byte order
// and signed samples when admissible, otherwise the smallest admissible
// value. f is not modified.
func FixateDefaults(f *caps.Filter) *caps.Filter {
	out := f.Clone()

	for _, field := range out.Present() {
		c, _ := out.Get(field)
		if c.IsFixed() || c.IsEmpty() {
			continue
		}

		v := c.Min()
		switch {
		case field == caps.FieldEndianness && c.Contains(int(audio.NativeEndian)):
			v = int(audio.NativeEndian)
		case field == caps.FieldSigned && c.Contains(1):
			v = 1
		}
		out.Set(field, caps.Fixed(v))
	}

	return out
}
