// ABOUTME: The full space of raw formats the converter accepts
// ABOUTME: Mirrors the static template advertised on both sides of the converter
package caps

import (
	"math"

	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio"
)

// MaxRate is the largest sample rate a filter can express
const MaxRate = math.MaxInt32

// Widths returns the container widths from lo to hi in steps of 8.
// A single width is returned as Fixed.
func Widths(lo, hi int) Constraint {
	var ws []int
	for w := lo; w <= hi; w += 8 {
		ws = append(ws, w)
	}
	return List(ws...)
}

// FloatWidths admits the two float containers, 32 and 64 bits
func FloatWidths() Constraint {
	return List(32, 64)
}

// AnyEndianness admits both byte orders
func AnyEndianness() Constraint {
	return List(int(audio.LittleEndian), int(audio.BigEndian))
}

// Template returns every format the converter can take or produce:
// native-endian float of 64 and 32 bits, then integers of 32, 24, 16 and
// 8 bits with any depth up to the width, either byte order and either
// signedness.
func Template() FilterSet {
	set := FilterSet{}
	for _, w := range []int{64, 32} {
		set = append(set, NewFilter(audio.EncodingFloat).
			Set(FieldRate, Range(1, MaxRate)).
			Set(FieldChannels, Range(1, audio.MaxChannels)).
			Set(FieldEndianness, Fixed(int(audio.NativeEndian))).
			Set(FieldWidth, Fixed(w)))
	}
	for _, w := range []int{32, 24, 16, 8} {
		set = append(set, NewFilter(audio.EncodingInteger).
			Set(FieldRate, Range(1, MaxRate)).
			Set(FieldChannels, Range(1, audio.MaxChannels)).
			Set(FieldEndianness, AnyEndianness()).
			Set(FieldWidth, Fixed(w)).
			Set(FieldDepth, Range(1, w)).
			Set(FieldSigned, AnyBool()))
	}
	return set
}
