// ABOUTME: Format filters and ordered filter sets
// ABOUTME: A filter constrains format fields; a set is an ordered disjunction of filters
package caps

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio"
)

// Field names one constrainable format field
type Field int

// Fields in fixation order
const (
	FieldChannels Field = iota
	FieldRate
	FieldEndianness
	FieldWidth
	FieldDepth
	FieldSigned

	numFields
)

var fieldNames = [numFields]string{
	FieldChannels:   "channels",
	FieldRate:       "rate",
	FieldEndianness: "endianness",
	FieldWidth:      "width",
	FieldDepth:      "depth",
	FieldSigned:     "signed",
}

// AllFields lists every field in fixation order
var AllFields = []Field{FieldChannels, FieldRate, FieldEndianness, FieldWidth, FieldDepth, FieldSigned}

func (f Field) String() string {
	if f >= 0 && f < numFields {
		return fieldNames[f]
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// Filter is a template over raw audio formats: the encoding is fixed and
// each present field carries a Constraint. Absent fields are unconstrained.
type Filter struct {
	Encoding audio.Encoding

	fields    [numFields]Constraint
	present   [numFields]bool
	positions []audio.ChannelPosition
}

// NewFilter returns an empty filter for the given encoding
func NewFilter(enc audio.Encoding) *Filter {
	return &Filter{Encoding: enc}
}

// FromDescriptor returns the resolved filter describing exactly d
func FromDescriptor(d audio.Descriptor) *Filter {
	f := NewFilter(d.Encoding).
		Set(FieldChannels, Fixed(d.Channels)).
		Set(FieldRate, Fixed(d.Rate)).
		Set(FieldEndianness, Fixed(int(d.Endianness))).
		Set(FieldWidth, Fixed(d.Width))
	if d.Encoding == audio.EncodingInteger {
		f.Set(FieldDepth, Fixed(d.Depth))
		f.Set(FieldSigned, Bool(d.Signed))
	}
	if d.Positions != nil {
		f.SetPositions(d.Positions)
	}
	return f
}

// Set constrains field to c and returns f
func (f *Filter) Set(field Field, c Constraint) *Filter {
	f.fields[field] = c
	f.present[field] = true
	return f
}

// Remove drops field from f and returns f
func (f *Filter) Remove(field Field) *Filter {
	f.fields[field] = Constraint{}
	f.present[field] = false
	return f
}

// Get returns the constraint on field, if present
func (f *Filter) Get(field Field) (Constraint, bool) {
	return f.fields[field], f.present[field]
}

// Has reports whether field is present
func (f *Filter) Has(field Field) bool {
	return f.present[field]
}

// Int returns the value of field when it is present and fixed
func (f *Filter) Int(field Field) (int, bool) {
	if !f.present[field] {
		return 0, false
	}
	return f.fields[field].Value()
}

// SetPositions attaches a fixed channel layout to f and returns f
func (f *Filter) SetPositions(p []audio.ChannelPosition) *Filter {
	f.positions = slices.Clone(p)
	return f
}

// Positions returns the channel layout carried by f, or nil
func (f *Filter) Positions() []audio.ChannelPosition {
	return slices.Clone(f.positions)
}

// Clone returns an independent copy of f
func (f *Filter) Clone() *Filter {
	c := *f
	c.positions = slices.Clone(f.positions)
	return &c
}

// Present lists the fields present on f in fixation order
func (f *Filter) Present() []Field {
	var out []Field
	for _, field := range AllFields {
		if f.present[field] {
			out = append(out, field)
		}
	}
	return out
}

// IsResolved reports whether every present field is fixed
func (f *Filter) IsResolved() bool {
	for _, field := range AllFields {
		if f.present[field] && !f.fields[field].IsFixed() {
			return false
		}
	}
	return true
}

// IsEmpty reports whether some present field admits no value
func (f *Filter) IsEmpty() bool {
	for _, field := range AllFields {
		if f.present[field] && f.fields[field].IsEmpty() {
			return true
		}
	}
	return false
}

// Intersect returns the formats admitted by both f and o. A field present
// on only one side is taken from that side. It returns false when the
// encodings differ, the layouts disagree or some field becomes empty.
func (f *Filter) Intersect(o *Filter) (*Filter, bool) {
	if f.Encoding != o.Encoding {
		return nil, false
	}

	out := NewFilter(f.Encoding)
	for _, field := range AllFields {
		a, okA := f.Get(field)
		b, okB := o.Get(field)
		switch {
		case okA && okB:
			c := a.Intersect(b)
			if c.IsEmpty() {
				return nil, false
			}
			out.Set(field, c)
		case okA:
			out.Set(field, a)
		case okB:
			out.Set(field, b)
		}
	}

	switch {
	case f.positions != nil && o.positions != nil:
		if !slices.Equal(f.positions, o.positions) {
			return nil, false
		}
		out.positions = slices.Clone(f.positions)
	case f.positions != nil:
		out.positions = slices.Clone(f.positions)
	case o.positions != nil:
		out.positions = slices.Clone(o.positions)
	}

	return out, true
}

// Equal reports whether f and o carry the same encoding, fields and layout
func (f *Filter) Equal(o *Filter) bool {
	if f.Encoding != o.Encoding || !slices.Equal(f.positions, o.positions) {
		return false
	}
	for _, field := range AllFields {
		if f.present[field] != o.present[field] {
			return false
		}
		if f.present[field] && !f.fields[field].Equal(o.fields[field]) {
			return false
		}
	}
	return true
}

func (f *Filter) String() string {
	var b strings.Builder
	b.WriteString("audio/")
	b.WriteString(f.Encoding.String())
	for _, field := range AllFields {
		if !f.present[field] {
			continue
		}
		fmt.Fprintf(&b, ", %s=%s", field, f.fields[field])
	}
	if f.positions != nil {
		names := make([]string, len(f.positions))
		for i, p := range f.positions {
			names[i] = p.String()
		}
		fmt.Fprintf(&b, ", positions=<%s>", strings.Join(names, ","))
	}
	return b.String()
}

// FilterSet is an ordered disjunction of filters, most preferred first
type FilterSet []*Filter

// Intersect keeps, in the receiver's order, every non-empty pairwise
// intersection of s with peer
func (s FilterSet) Intersect(peer FilterSet) FilterSet {
	var out FilterSet
	for _, a := range s {
		for _, b := range peer {
			if x, ok := a.Intersect(b); ok {
				out = append(out, x)
			}
		}
	}
	return out
}

// IsEmpty reports whether s admits no format
func (s FilterSet) IsEmpty() bool {
	return len(s) == 0
}

func (s FilterSet) String() string {
	if len(s) == 0 {
		return "EMPTY"
	}
	parts := make([]string, len(s))
	for i, f := range s {
		parts[i] = f.String()
	}
	return strings.Join(parts, "; ")
}
