// ABOUTME: Ranked candidate filters for the other side of a conversion
// ABOUTME: Orders acceptable output formats from lossless to most lossy
package negotiate

import (
	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio"
	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio/caps"
)

// Tier ranks a candidate by how much information the conversion loses
type Tier int

const (
	// TierLossless changes only byte order, signedness or encoding
	TierLossless Tier = iota
	// TierGrow also allows wider containers, more depth and more channels
	TierGrow
	// TierForcedWiden allows any width between 16 and 32 bits
	TierForcedWiden
	// TierFewerChannels allows down-mixing
	TierFewerChannels
	// TierAnyFormat allows every width and depth the converter supports
	TierAnyFormat
)

func (t Tier) String() string {
	switch t {
	case TierLossless:
		return "lossless"
	case TierGrow:
		return "grow"
	case TierForcedWiden:
		return "forced-widen"
	case TierFewerChannels:
		return "fewer-channels"
	case TierAnyFormat:
		return "any-format"
	default:
		return "unknown"
	}
}

// Candidate is one ranked filter
type Candidate struct {
	Tier   Tier
	Filter *caps.Filter
}

// candidateFields are the only fields carried over from the known side
var candidateFields = []caps.Field{
	caps.FieldWidth, caps.FieldDepth, caps.FieldRate,
	caps.FieldChannels, caps.FieldEndianness, caps.FieldSigned,
}

// BuildCandidates returns the formats the other side may use when this
// side is fixed to d, best first
func BuildCandidates(d audio.Descriptor) caps.FilterSet {
	return filters(BuildRanked(caps.FromDescriptor(d), true))
}

// CandidatesFor is BuildCandidates for a known side that may still be
// partially unresolved. Width, depth and channel relaxations are only
// applied to fields that are fixed on known.
func CandidatesFor(known *caps.Filter) caps.FilterSet {
	return filters(BuildRanked(known, true))
}

// BuildRanked returns the candidates for known annotated with their tier.
// forcedWiden controls whether the TierForcedWiden candidate is emitted.
func BuildRanked(known *caps.Filter, forcedWiden bool) []Candidate {
	isFloat := known.Encoding == audio.EncodingFloat

	// Work on a copy holding only the fields we negotiate
	s := caps.NewFilter(known.Encoding)
	for _, field := range candidateFields {
		if c, ok := known.Get(field); ok {
			s.Set(field, c)
		}
	}

	// Depth is commonly left out; it then equals a fixed width
	if !isFloat && !s.Has(caps.FieldDepth) {
		if width, ok := s.Int(caps.FieldWidth); ok {
			s.Set(caps.FieldDepth, caps.Fixed(width))
		}
	}

	var out []Candidate
	add := func(t Tier, f *caps.Filter) {
		out = append(out, Candidate{Tier: t, Filter: f})
	}

	// All lossless conversions, then the same across encodings
	s = makeLossless(s, isFloat)
	add(TierLossless, s)
	add(TierLossless, otherEncoding(s))

	// Growing width, depth or channels is fine, shrinking them is not
	grow := s.Clone()
	if !isFloat {
		if width, ok := known.Int(caps.FieldWidth); ok {
			grow.Set(caps.FieldWidth, caps.Widths(width, audio.MaxIntWidth))
		}
		if depth, ok := s.Int(caps.FieldDepth); ok {
			grow.Set(caps.FieldDepth, caps.Range(depth, audio.MaxIntWidth))
		}
	}
	if channels, ok := known.Int(caps.FieldChannels); ok {
		grow.Set(caps.FieldChannels, caps.Range(channels, audio.MaxChannels))
	}
	add(TierGrow, grow)
	add(TierGrow, otherEncoding(grow))

	// Reduce depth if we must, but not below 16 bits. Float cannot
	// express these widths, so it only gets the integer counterpart.
	width, widthKnown := known.Int(caps.FieldWidth)
	if forcedWiden && (!widthKnown || width > 16) {
		widen := grow.Clone().
			Set(caps.FieldWidth, caps.Widths(16, audio.MaxIntWidth)).
			Set(caps.FieldDepth, caps.Range(16, audio.MaxIntWidth))
		if isFloat {
			add(TierForcedWiden, otherEncoding(widen))
		} else {
			add(TierForcedWiden, widen)
		}
	}

	// Dropping channels is very lossy, so it comes late
	fewer := grow.Clone().Set(caps.FieldChannels, caps.Range(1, audio.MaxChannels))
	add(TierFewerChannels, fewer)
	add(TierFewerChannels, otherEncoding(fewer))

	// Everything the integer side of the template admits
	anyFormat := fewer.Clone().
		Set(caps.FieldWidth, caps.Widths(8, audio.MaxIntWidth)).
		Set(caps.FieldDepth, caps.Range(1, audio.MaxIntWidth))
	if isFloat {
		add(TierAnyFormat, otherEncoding(anyFormat))
	} else {
		add(TierAnyFormat, anyFormat)
	}

	return out
}

// makeLossless relaxes f to everything reachable from it without losing
// information. Float has a single layout per width; integer can flip
// byte order and signedness freely.
func makeLossless(f *caps.Filter, isFloat bool) *caps.Filter {
	if isFloat {
		return f.Remove(caps.FieldDepth).
			Remove(caps.FieldSigned).
			Set(caps.FieldWidth, caps.FloatWidths()).
			Set(caps.FieldEndianness, caps.Fixed(int(audio.NativeEndian)))
	}
	return f.Set(caps.FieldEndianness, caps.AnyEndianness()).
		Set(caps.FieldSigned, caps.AnyBool())
}

// otherEncoding returns the integer/float counterpart of f
func otherEncoding(f *caps.Filter) *caps.Filter {
	c := f.Clone()
	c.Encoding = f.Encoding.Other()

	if c.Encoding == audio.EncodingFloat {
		return makeLossless(c, true)
	}

	// Integer containers stop at 32 bits
	if w, ok := c.Get(caps.FieldWidth); ok {
		w = w.Intersect(caps.Range(8, audio.MaxIntWidth))
		if w.IsEmpty() {
			w = caps.Fixed(audio.MaxIntWidth)
		}
		c.Set(caps.FieldWidth, w)
		if !c.Has(caps.FieldDepth) {
			c.Set(caps.FieldDepth, caps.Range(1, w.Max()))
		}
	}
	return makeLossless(c, false)
}

func filters(cands []Candidate) caps.FilterSet {
	set := make(caps.FilterSet, len(cands))
	for i, c := range cands {
		set[i] = c.Filter
	}
	return set
}
