// ABOUTME: Channel position tags and default layouts
// ABOUTME: Read-only tables built at package init, safe for concurrent readers
package audio

import (
	"errors"
	"fmt"
	"slices"
)

// ChannelPosition tags the speaker a channel is meant for
type ChannelPosition int

const (
	PositionNone ChannelPosition = iota
	PositionMono
	PositionFrontLeft
	PositionFrontRight
	PositionRearCenter
	PositionRearLeft
	PositionRearRight
	PositionLFE
	PositionFrontCenter
	PositionFrontLeftOfCenter
	PositionFrontRightOfCenter
	PositionSideLeft
	PositionSideRight

	numPositions
)

var positionNames = [numPositions]string{
	PositionNone:               "none",
	PositionMono:               "mono",
	PositionFrontLeft:          "front-left",
	PositionFrontRight:         "front-right",
	PositionRearCenter:         "rear-center",
	PositionRearLeft:           "rear-left",
	PositionRearRight:          "rear-right",
	PositionLFE:                "lfe",
	PositionFrontCenter:        "front-center",
	PositionFrontLeftOfCenter:  "front-left-of-center",
	PositionFrontRightOfCenter: "front-right-of-center",
	PositionSideLeft:           "side-left",
	PositionSideRight:          "side-right",
}

// defaultLayouts[n] is the layout assumed for n channels when a format
// does not spell out its positions
var defaultLayouts = [MaxChannels + 1][]ChannelPosition{
	1: {PositionMono},
	2: {PositionFrontLeft, PositionFrontRight},
	3: {PositionFrontLeft, PositionFrontRight, PositionFrontCenter},
	4: {PositionFrontLeft, PositionFrontRight, PositionRearLeft, PositionRearRight},
	5: {PositionFrontLeft, PositionFrontRight, PositionFrontCenter, PositionRearLeft, PositionRearRight},
	6: {PositionFrontLeft, PositionFrontRight, PositionFrontCenter, PositionLFE, PositionRearLeft, PositionRearRight},
	7: {PositionFrontLeft, PositionFrontRight, PositionFrontCenter, PositionLFE, PositionRearCenter, PositionSideLeft, PositionSideRight},
	8: {PositionFrontLeft, PositionFrontRight, PositionFrontCenter, PositionLFE, PositionRearLeft, PositionRearRight, PositionSideLeft, PositionSideRight},
}

// ErrInvalidPositions is returned when a position list does not fit its channel count
var ErrInvalidPositions = errors.New("invalid channel positions")

func (p ChannelPosition) String() string {
	if p.Known() {
		return positionNames[p]
	}
	return fmt.Sprintf("position(%d)", int(p))
}

// Known reports whether p is in the position table
func (p ChannelPosition) Known() bool {
	return p >= 0 && p < numPositions
}

// DefaultPositions returns a copy of the default layout for channels,
// or false when no layout is defined for that count
func DefaultPositions(channels int) ([]ChannelPosition, bool) {
	if channels < 1 || channels > MaxChannels {
		return nil, false
	}
	return slices.Clone(defaultLayouts[channels]), true
}

// ValidatePositions checks that positions describes channels distinct,
// known speakers. A layout made only of PositionNone (unpositioned audio)
// is accepted; mixing PositionNone with real positions is not.
func ValidatePositions(positions []ChannelPosition, channels int) error {
	if len(positions) != channels {
		return fmt.Errorf("%w: %d positions for %d channels", ErrInvalidPositions, len(positions), channels)
	}

	none := 0
	var seen [numPositions]bool
	for _, p := range positions {
		if !p.Known() {
			return fmt.Errorf("%w: unknown position %d", ErrInvalidPositions, int(p))
		}
		if p == PositionNone {
			none++
			continue
		}
		if seen[p] {
			return fmt.Errorf("%w: duplicate %s", ErrInvalidPositions, p)
		}
		seen[p] = true
	}

	if none > 0 && none != len(positions) {
		return fmt.Errorf("%w: none mixed with positioned channels", ErrInvalidPositions)
	}
	// mono only makes sense alone
	if seen[PositionMono] && channels != 1 {
		return fmt.Errorf("%w: mono in a %d channel layout", ErrInvalidPositions, channels)
	}
	return nil
}
