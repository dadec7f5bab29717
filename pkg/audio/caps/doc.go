// ABOUTME: Constrained format filters for raw audio negotiation
// ABOUTME: Provides Constraint, Filter, FilterSet and the converter's template
// Package caps describes sets of raw audio formats.
//
// A Filter fixes the encoding and constrains each format field with a
// Constraint, which is one of:
//   - Fixed: a single value
//   - List: an enumerated set of values
//   - Range: an inclusive integer range
//
// A FilterSet is an ordered disjunction of filters, most preferred first.
// Sets from the two sides of a conversion are combined with Intersect.
//
// Example:
//
//	f := caps.NewFilter(audio.EncodingInteger).
//	    Set(caps.FieldWidth, caps.Widths(16, 32)).
//	    Set(caps.FieldChannels, caps.Range(2, 8))
//	common := caps.FilterSet{f}.Intersect(caps.Template())
package caps
