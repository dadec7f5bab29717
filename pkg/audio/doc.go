// ABOUTME: Raw audio format model shared by negotiation and conversion
// ABOUTME: Defines Descriptor, encodings, byte orders and channel positions
// Package audio provides the concrete raw audio format model.
//
// This package defines the types every other package builds on:
//   - Descriptor: a fully resolved format (encoding, rate, channels, width,
//     depth, signedness, byte order, channel positions, frame size)
//   - ChannelPosition: speaker tags plus default layouts for 1-8 channels
//   - UnitSize: bytes per frame for a given width and channel count
//
// It also provides helpers for reading and writing raw sample containers
// of 8, 16, 24 and 32 bits in either byte order.
//
// Example:
//
//	d := audio.Descriptor{
//	    Encoding:   audio.EncodingInteger,
//	    Channels:   2,
//	    Rate:       44100,
//	    Width:      16,
//	    Depth:      16,
//	    Signed:     true,
//	    Endianness: audio.LittleEndian,
//	}
//	frame := audio.UnitSize(d.Width, d.Channels) // 4 bytes
package audio
