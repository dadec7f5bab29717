// ABOUTME: Negotiator tying candidates, fixation, parsing and conversion together
// ABOUTME: Stands in for the host transform element on one converter instance
package negotiate

import (
	"fmt"
	"log"
	"slices"

	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio"
	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio/caps"
	"github.com/Resonate-Protocol/audioconvert-go/pkg/audio/convert"
	"github.com/google/uuid"
)

// Direction tells which side of the converter is already known
type Direction int

const (
	// DirectionSink means the input side is known and the output is negotiated
	DirectionSink Direction = iota
	// DirectionSrc means the output side is known and the input is negotiated
	DirectionSrc
)

func (d Direction) String() string {
	if d == DirectionSrc {
		return "src"
	}
	return "sink"
}

// Conversion is a prepared sample conversion between two formats
type Conversion interface {
	// Sizes returns the byte sizes of frames frames on each side
	Sizes(frames int) (inBytes, outBytes int)

	// Convert converts frames frames from src into dst
	Convert(src, dst []byte, frames int, srcWritable bool) error
}

// ConverterFunc prepares a Conversion between two parsed formats
type ConverterFunc func(in, out audio.Descriptor) (Conversion, error)

// Config configures a Negotiator
type Config struct {
	// DisableForcedWiden drops the 16-32 bit forced widen candidates, so a
	// narrower peer format is only reached through the later tiers
	DisableForcedWiden bool

	// Converter prepares conversions (default: convert.Prepare)
	Converter ConverterFunc

	// Debug enables debug logging
	Debug bool
}

// Result is the outcome of a negotiation
type Result struct {
	// Descriptor is the negotiated format of the other side
	Descriptor audio.Descriptor

	// Filter is the resolved filter Descriptor was parsed from
	Filter *caps.Filter

	// Index is the position of the winning candidate in the ranked list
	Index int

	// Tier is the winning candidate's tier
	Tier Tier
}

// Negotiator negotiates and converts formats for one converter instance.
// It is not safe for concurrent use.
type Negotiator struct {
	config Config
	id     string

	in, out *audio.Descriptor
	conv    Conversion
}

// New creates a negotiator with the given configuration
func New(config Config) *Negotiator {
	// Set defaults
	if config.Converter == nil {
		config.Converter = defaultConverter
	}

	return &Negotiator{
		config: config,
		id:     uuid.New().String(),
	}
}

func defaultConverter(in, out audio.Descriptor) (Conversion, error) {
	ctx, err := convert.Prepare(in, out)
	if err != nil {
		return nil, err
	}
	return ctx, nil
}

// ID returns the negotiator's instance ID
func (n *Negotiator) ID() string {
	return n.id
}

func (n *Negotiator) debugf(format string, args ...interface{}) {
	if n.config.Debug {
		log.Printf("[audioconvert %s] "+format, append([]interface{}{n.id[:8]}, args...)...)
	}
}

// TransformCaps returns the formats the other side may take given the
// known side, best first
func (n *Negotiator) TransformCaps(dir Direction, known *caps.Filter) caps.FilterSet {
	set := filters(BuildRanked(known, !n.config.DisableForcedWiden))
	n.debugf("%s: transform %s -> %d candidates", dir, known, len(set))
	return set
}

// FixateCaps resolves other as close to known as possible
func (n *Negotiator) FixateCaps(dir Direction, known audio.Descriptor, other *caps.Filter) (*caps.Filter, error) {
	if other.IsEmpty() {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFilter, other)
	}

	fixed := Fixate(known, other)
	n.debugf("%s: fixated %s to %s", dir, other, fixed)
	return fixed, nil
}

// Negotiate picks the best format for the other side that peer accepts.
// Candidates are tried in rank order and peer filters in the peer's
// order. When a candidate and a peer filter still span several template
// formats, the one whose fixated values are nearest known wins. A
// candidate that fails to fixate or parse is skipped.
func (n *Negotiator) Negotiate(dir Direction, known audio.Descriptor, peer caps.FilterSet) (Result, error) {
	ranked := BuildRanked(caps.FromDescriptor(known), !n.config.DisableForcedWiden)
	template := caps.Template()

	for i, cand := range ranked {
		for _, p := range peer {
			common, ok := cand.Filter.Intersect(p)
			if !ok {
				continue
			}

			fixed, d, ok := n.nearestFormat(dir, known, common, template)
			if !ok {
				n.debugf("%s: candidate %d: nothing parseable in %s", dir, i, common)
				continue
			}

			n.debugf("%s: negotiated %s (candidate %d, tier %s)", dir, d, i, cand.Tier)
			return Result{Descriptor: d, Filter: fixed, Index: i, Tier: cand.Tier}, nil
		}
	}

	return Result{}, fmt.Errorf("%w for %s", ErrNoCommonFormat, known)
}

// nearestFormat splits common by the template, which ties depth to width,
// fixates every piece and keeps the one nearest known
func (n *Negotiator) nearestFormat(dir Direction, known audio.Descriptor, common *caps.Filter, template caps.FilterSet) (*caps.Filter, audio.Descriptor, bool) {
	var (
		best     *caps.Filter
		bestDesc audio.Descriptor
		bestDist []int
	)

	for _, piece := range (caps.FilterSet{common}).Intersect(template) {
		fixed, err := n.FixateCaps(dir, known, piece)
		if err != nil {
			continue
		}
		fixed = FixateDefaults(fixed)

		d, err := Parse(fixed)
		if err != nil {
			n.debugf("%s: %s: %v", dir, fixed, err)
			continue
		}

		// Ties keep the earlier piece
		dist := distance(known, d)
		if best == nil || slices.Compare(dist, bestDist) < 0 {
			best, bestDesc, bestDist = fixed, d, dist
		}
	}

	return best, bestDesc, best != nil
}

// distance measures d against known field by field in fixation order
func distance(known, d audio.Descriptor) []int {
	depth := 0
	if known.HasDepth() && d.HasDepth() {
		depth = absDiff(d.Depth, known.Depth)
	}
	signed := 0
	if known.Encoding == audio.EncodingInteger && d.Encoding == audio.EncodingInteger && known.Signed != d.Signed {
		signed = 1
	}

	return []int{
		absDiff(d.Channels, known.Channels),
		absDiff(d.Rate, known.Rate),
		absDiff(int(d.Endianness), int(known.Endianness)),
		absDiff(d.Width, known.Width),
		depth,
		signed,
	}
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// SetCaps parses both resolved formats and prepares the conversion
func (n *Negotiator) SetCaps(in, out *caps.Filter) error {
	inDesc, err := Parse(in)
	if err != nil {
		return fmt.Errorf("input format: %w", err)
	}
	outDesc, err := Parse(out)
	if err != nil {
		return fmt.Errorf("output format: %w", err)
	}

	conv, err := n.config.Converter(inDesc, outDesc)
	if err != nil {
		return fmt.Errorf("failed to prepare conversion %s -> %s: %w", inDesc, outDesc, err)
	}

	n.in, n.out, n.conv = &inDesc, &outDesc, conv
	n.debugf("set caps %s -> %s", inDesc, outDesc)
	return nil
}

// UnitSize returns the frame size of a resolved format
func (n *Negotiator) UnitSize(f *caps.Filter) (int, error) {
	d, err := Parse(f)
	if err != nil {
		return 0, err
	}
	return d.UnitSize, nil
}

// InputFormat returns the negotiated input format
func (n *Negotiator) InputFormat() (audio.Descriptor, bool) {
	if n.in == nil {
		return audio.Descriptor{}, false
	}
	return *n.in, true
}

// OutputFormat returns the negotiated output format
func (n *Negotiator) OutputFormat() (audio.Descriptor, bool) {
	if n.out == nil {
		return audio.Descriptor{}, false
	}
	return *n.out, true
}

// Passthrough reports whether the negotiated formats are identical
func (n *Negotiator) Passthrough() bool {
	return n.in != nil && n.out != nil && n.in.Equal(*n.out)
}

// Transform converts every whole frame in src into dst and returns the
// number of bytes written to dst
func (n *Negotiator) Transform(src, dst []byte, srcWritable bool) (int, error) {
	if n.conv == nil {
		return 0, ErrNotNegotiated
	}

	frames := len(src) / n.in.UnitSize
	inSize, outSize := n.conv.Sizes(frames)
	if inSize == 0 || outSize == 0 {
		return 0, nil
	}

	// Check in and out sizes
	if len(src) < inSize || len(dst) < outSize {
		return 0, fmt.Errorf("%w: in %d < %d or out %d < %d",
			ErrBufferTooSmall, len(src), inSize, len(dst), outSize)
	}

	if err := n.conv.Convert(src, dst, frames, srcWritable); err != nil {
		return 0, fmt.Errorf("error while converting: %w", err)
	}
	return outSize, nil
}

// Reset drops the negotiated formats, as on a stream format change
func (n *Negotiator) Reset() {
	n.in, n.out, n.conv = nil, nil, nil
	n.debugf("reset")
}
