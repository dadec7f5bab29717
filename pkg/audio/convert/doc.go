// ABOUTME: Sample converter package for negotiated raw formats
// ABOUTME: Provides Prepare, Sizes and Convert on go-audio scratch buffers
// Package convert performs the per-sample work between two negotiated
// raw audio formats.
//
// Supported: any width/depth pairing, signed <-> unsigned, little <-> big
// endian, integer <-> float, and channel reordering when both sides carry
// the same positions in a different order. Not supported: resampling,
// dithering and channel mixing.
//
// Integer samples pass through a go-audio IntBuffer left-justified to 32
// bits; anything touching float passes through a go-audio FloatBuffer in
// [-1, 1).
//
// Example:
//
//	ctx, err := convert.Prepare(in, out)
//	inBytes, outBytes := ctx.Sizes(frames)
//	err = ctx.Convert(src[:inBytes], dst[:outBytes], frames, false)
package convert
