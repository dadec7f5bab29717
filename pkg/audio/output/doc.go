// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides the Output interface and an oto implementation
// Package output plays raw frames on the system audio device.
//
// An Output advertises the formats it can play as a caps.FilterSet, so a
// negotiator can pick the closest one for a given source, and is then
// opened with the negotiated format.
//
// Example:
//
//	out := output.NewOto()
//	res, err := n.Negotiate(negotiate.DirectionSink, src.Format(), out.Caps())
//	err = out.Open(res.Descriptor)
//	_, err = out.Write(frames)
package output
