// ABOUTME: Audio encoder package
// ABOUTME: Provides an Opus encoder that advertises the raw formats it accepts
// Package encode compresses raw frames.
//
// Encoders advertise the raw formats they accept as a caps.FilterSet so
// a negotiator can choose the input layout, then take whole frames in
// that layout.
//
// Example:
//
//	res, err := n.Negotiate(negotiate.DirectionSink, in, encode.OpusCaps())
//	enc, err := encode.NewOpus(res.Descriptor)
//	packets, err := enc.Encode(frames)
package encode
