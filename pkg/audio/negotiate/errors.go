// ABOUTME: Error kinds reported by format negotiation
// ABOUTME: Sentinels are wrapped with detail; match them with errors.Is
package negotiate

import "errors"

var (
	// ErrMissingField means a required field is absent or not fixed, or
	// channel positions cannot be derived for the channel count
	ErrMissingField = errors.New("missing field")

	// ErrDepthExceedsWidth means an integer depth is larger than its container
	ErrDepthExceedsWidth = errors.New("depth exceeds width")

	// ErrUnsupportedEncoding means the encoding tag, or a width it was
	// given, is not one the converter handles
	ErrUnsupportedEncoding = errors.New("unsupported encoding")

	// ErrInvalidValue means a fixed field holds a value outside its domain
	ErrInvalidValue = errors.New("invalid value")

	// ErrEmptyFilter means a filter admits no value for some field
	ErrEmptyFilter = errors.New("empty filter")

	// ErrNoCommonFormat means no candidate intersected the peer's formats
	ErrNoCommonFormat = errors.New("no common format")

	// ErrNotNegotiated means formats have not been set yet
	ErrNotNegotiated = errors.New("formats not negotiated")

	// ErrBufferTooSmall means a buffer cannot hold the frames being converted
	ErrBufferTooSmall = errors.New("buffer too small")
)
