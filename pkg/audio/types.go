// ABOUTME: Audio format descriptor definitions
// ABOUTME: Defines encodings, byte orders, concrete descriptors and frame sizing
package audio

import (
	"encoding/binary"
	"fmt"
	"slices"
)

const (
	// MaxChannels is the largest channel count a descriptor may carry
	MaxChannels = 8

	// MaxIntWidth is the widest integer container in bits
	MaxIntWidth = 32
)

// Encoding tells integer samples from floating point samples
type Encoding int

const (
	EncodingInteger Encoding = iota + 1
	EncodingFloat
)

func (e Encoding) String() string {
	switch e {
	case EncodingInteger:
		return "int"
	case EncodingFloat:
		return "float"
	default:
		return fmt.Sprintf("encoding(%d)", int(e))
	}
}

// Valid reports whether e is one of the known encodings
func (e Encoding) Valid() bool {
	return e == EncodingInteger || e == EncodingFloat
}

// Other returns the opposite encoding (integer <-> float)
func (e Encoding) Other() Encoding {
	if e == EncodingFloat {
		return EncodingInteger
	}
	return EncodingFloat
}

// Endianness is a byte order code. The values are the classic 1234/4321
// codes so that nearest-value fixation treats them like any other integer.
type Endianness int

const (
	LittleEndian Endianness = 1234
	BigEndian    Endianness = 4321
)

// NativeEndian is the byte order of the running machine
var NativeEndian = detectNativeEndian()

func detectNativeEndian() Endianness {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	if b[0] == 1 {
		return LittleEndian
	}
	return BigEndian
}

func (e Endianness) String() string {
	switch e {
	case LittleEndian:
		return "le"
	case BigEndian:
		return "be"
	default:
		return fmt.Sprintf("endianness(%d)", int(e))
	}
}

// ByteOrder returns the encoding/binary order for e
func (e Endianness) ByteOrder() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Descriptor is a fully resolved raw audio format
type Descriptor struct {
	Encoding   Encoding
	Channels   int
	Rate       int
	Width      int // container size in bits
	Depth      int // significant bits, integer only (0 for float)
	Signed     bool
	Endianness Endianness
	Positions  []ChannelPosition
	UnitSize   int // bytes per frame
}

// UnitSize returns the size in bytes of one frame of channels samples
// stored in width-bit containers
func UnitSize(width, channels int) int {
	return width * channels / 8
}

// IsFloat reports whether d carries floating point samples
func (d Descriptor) IsFloat() bool {
	return d.Encoding == EncodingFloat
}

// HasDepth reports whether d carries a depth field
func (d Descriptor) HasDepth() bool {
	return d.Encoding == EncodingInteger && d.Depth > 0
}

// Equal reports whether two descriptors describe the same format
func (d Descriptor) Equal(o Descriptor) bool {
	return d.Encoding == o.Encoding &&
		d.Channels == o.Channels &&
		d.Rate == o.Rate &&
		d.Width == o.Width &&
		d.Depth == o.Depth &&
		d.Signed == o.Signed &&
		d.Endianness == o.Endianness &&
		d.UnitSize == o.UnitSize &&
		slices.Equal(d.Positions, o.Positions)
}

func (d Descriptor) String() string {
	if d.IsFloat() {
		return fmt.Sprintf("float%d%s %dHz %dch", d.Width, d.Endianness, d.Rate, d.Channels)
	}
	sign := "u"
	if d.Signed {
		sign = "s"
	}
	s := fmt.Sprintf("%s%d/%d", sign, d.Width, d.Depth)
	if d.Width != 8 {
		s += d.Endianness.String()
	}
	return fmt.Sprintf("%s %dHz %dch", s, d.Rate, d.Channels)
}

// ReadSample reads one width-bit container from b in byte order e.
// The raw bits are returned right-aligned.
func ReadSample(b []byte, width int, e Endianness) uint32 {
	switch width {
	case 8:
		return uint32(b[0])
	case 16:
		return uint32(e.ByteOrder().Uint16(b))
	case 24:
		if e == BigEndian {
			return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
		}
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	default:
		return e.ByteOrder().Uint32(b)
	}
}

// WriteSample stores the low width bits of v into b in byte order e
func WriteSample(b []byte, v uint32, width int, e Endianness) {
	switch width {
	case 8:
		b[0] = byte(v)
	case 16:
		e.ByteOrder().PutUint16(b, uint16(v))
	case 24:
		if e == BigEndian {
			b[0], b[1], b[2] = byte(v>>16), byte(v>>8), byte(v)
			return
		}
		b[0], b[1], b[2] = byte(v), byte(v>>8), byte(v>>16)
	default:
		e.ByteOrder().PutUint32(b, v)
	}
}

// SignExtend interprets the low bits of v as a two's complement value
func SignExtend(v uint32, bits int) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}
