// ABOUTME: Raw audio format negotiation package
// ABOUTME: Provides the format parser, ranked candidate builder, fixator and Negotiator
// Package negotiate decides which raw format each side of a converter uses.
//
// The flow for one converter instance:
//   - BuildCandidates: given the known side, list acceptable formats for the
//     other side, lossless first, lossy (fewer channels, less depth) last
//   - an intersection with the peer's formats narrows one candidate down
//   - Fixate: resolve remaining ranges to the values nearest the known side
//   - Parse: validate the result into a concrete audio.Descriptor
//
// Negotiator wires these together with a sample converter and mirrors the
// hooks a host pipeline calls: TransformCaps, FixateCaps, SetCaps,
// UnitSize and Transform.
//
// Example:
//
//	n := negotiate.New(negotiate.Config{})
//	res, err := n.Negotiate(negotiate.DirectionSink, in, peerFormats)
//	err = n.SetCaps(caps.FromDescriptor(in), res.Filter)
//	written, err := n.Transform(src, dst, false)
package negotiate
