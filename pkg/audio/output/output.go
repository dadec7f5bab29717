// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for audio playback backends
package output

import (
	"errors"

	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio"
	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio/caps"
)

var (
	// ErrUnsupportedFormat means the device cannot play the format
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrNotOpen means Write was called before Open
	ErrNotOpen = errors.New("output not initialized")
)

// Output represents an audio output device
type Output interface {
	// Caps returns the formats the device can play, best first
	Caps() caps.FilterSet

	// Open initializes the output device for d
	Open(d audio.Descriptor) error

	// Write plays whole frames (blocks until written)
	Write(frames []byte) (int, error)

	// Close releases output resources
	Close() error
}
