// ABOUTME: Raw sample packing and unpacking
// ABOUTME: Moves samples between byte buffers and go-audio int or float buffers
package convert

import (
	"math"

	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio"
	goaudio "github.com/go-audio/audio"
)

const fullScale = 1 << 31

// unpackInt reads integer samples and left-justifies them to 32 bits
func unpackInt(dst []int, src []byte, d audio.Descriptor) {
	step := d.Width / 8
	mask := uint32(uint64(1)<<d.Depth - 1)
	shift := 32 - d.Depth

	for i := range dst {
		raw := audio.ReadSample(src[i*step:], d.Width, d.Endianness)

		var v int64
		if d.Signed {
			v = int64(audio.SignExtend(raw, d.Depth))
		} else {
			v = int64(raw&mask) - int64(1)<<(d.Depth-1)
		}
		dst[i] = int(int32(v << shift))
	}
}

// packInt writes 32-bit left-justified samples with d's depth and layout.
// Extra precision is truncated.
func packInt(dst []byte, src []int, d audio.Descriptor) {
	step := d.Width / 8
	shift := 32 - d.Depth

	for i, s := range src {
		v := int64(int32(s)) >> shift
		if !d.Signed {
			v += int64(1) << (d.Depth - 1)
		}
		audio.WriteSample(dst[i*step:], uint32(v), d.Width, d.Endianness)
	}
}

// unpackBuffer reads frames of any encoding into a float buffer in
// [-1, 1). Integer input goes through ints, which keeps the 32-bit
// left-justified samples.
func unpackBuffer(src []byte, d audio.Descriptor, ints *goaudio.IntBuffer, samples int) *goaudio.FloatBuffer {
	if !d.IsFloat() {
		ints.Data = grow(ints.Data, samples)
		unpackInt(ints.Data, src, d)
		return toFloat(ints)
	}

	floats := &goaudio.FloatBuffer{Format: BufferFormat(d), Data: make([]float64, samples)}
	order := d.Endianness.ByteOrder()
	for i := range floats.Data {
		if d.Width == 64 {
			floats.Data[i] = math.Float64frombits(order.Uint64(src[i*8:]))
		} else {
			floats.Data[i] = float64(math.Float32frombits(order.Uint32(src[i*4:])))
		}
	}
	return floats
}

// packBuffer writes a float buffer in d's encoding. Integer output is
// clipped to full scale and returned as the intermediate int buffer.
// The float buffer is used as scratch.
func packBuffer(dst []byte, floats *goaudio.FloatBuffer, d audio.Descriptor) *goaudio.IntBuffer {
	if !d.IsFloat() {
		ints := toInt(floats)
		packInt(dst, ints.Data, d)
		return ints
	}

	order := d.Endianness.ByteOrder()
	for i, f := range floats.Data {
		if d.Width == 64 {
			order.PutUint64(dst[i*8:], math.Float64bits(f))
		} else {
			order.PutUint32(dst[i*4:], math.Float32bits(float32(f)))
		}
	}
	return nil
}

// toFloat normalizes 32-bit left-justified samples to [-1, 1)
func toFloat(ints *goaudio.IntBuffer) *goaudio.FloatBuffer {
	floats := ints.AsFloatBuffer()
	for i := range floats.Data {
		floats.Data[i] /= fullScale
	}
	return floats
}

// toInt scales floats to 32-bit left-justified samples, rounding and
// clipping in place before the integer copy
func toInt(floats *goaudio.FloatBuffer) *goaudio.IntBuffer {
	for i, f := range floats.Data {
		floats.Data[i] = float64(toInt32(f))
	}
	ints := floats.AsIntBuffer()
	ints.SourceBitDepth = 32
	return ints
}

func toInt32(f float64) int32 {
	v := math.Round(f * fullScale)
	switch {
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	case math.IsNaN(v):
		return 0
	default:
		return int32(v)
	}
}
