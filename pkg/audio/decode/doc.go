// ABOUTME: Audio decoder package producing raw frames in a known format
// ABOUTME: Provides MP3 and Opus decoders whose output feeds format negotiation
// Package decode turns compressed audio into raw interleaved frames.
//
// Every decoder reports the Descriptor of the frames it produces, so the
// caller can negotiate a conversion from that format to whatever the
// next stage accepts.
//
// Example:
//
//	src, err := decode.NewMP3(file)
//	n := negotiate.New(negotiate.Config{})
//	res, err := n.Negotiate(negotiate.DirectionSink, src.Format(), sink.Caps())
package decode
