// Package layout models reproduction systems: loudspeaker layouts with
// nominal polar channel positions, screen geometry and optional
// room-relative (allocentric) coordinates, plus ambisonic output buses.
package layout

import (
	"fmt"

	"github.com/spatialkit/admrender/adm"
)

// Channel is one output channel of a loudspeaker layout.
type Channel struct {
	Name     string
	Position adm.PolarPosition
	IsLFE    bool
}

// Screen is the reproduction screen geometry in polar terms. Width is the
// full azimuthal width in degrees.
type Screen struct {
	CentreAzimuth   float64
	CentreElevation float64
	Width           float64
	AspectRatio     float64
}

// DefaultScreen is the reference screen assumed by object metadata that was
// authored without explicit screen geometry.
var DefaultScreen = Screen{Width: 58, AspectRatio: 1.78}

// Layout is an immutable description of the output system. For loudspeaker
// layouts Channels holds the declared channel order including LFE channels.
// For an ambisonic bus HOAOrder is non-zero and Channels holds one entry per
// ACN component.
type Layout struct {
	Name     string
	Channels []Channel
	Screen   *Screen
	HOAOrder int
}

// IsHOA reports whether the layout is an ambisonic bus rather than a
// loudspeaker layout.
func (l Layout) IsHOA() bool { return l.HOAOrder > 0 }

// NumChannels returns the total channel count including LFE channels.
func (l Layout) NumChannels() int { return len(l.Channels) }

// WithoutLFE returns a copy of the layout with LFE channels removed.
func (l Layout) WithoutLFE() Layout {
	out := Layout{Name: l.Name, Screen: l.Screen, HOAOrder: l.HOAOrder}
	for _, ch := range l.Channels {
		if !ch.IsLFE {
			out.Channels = append(out.Channels, ch)
		}
	}
	return out
}

// LFEFlags returns one flag per channel in declaration order.
func (l Layout) LFEFlags() []bool {
	flags := make([]bool, len(l.Channels))
	for i, ch := range l.Channels {
		flags[i] = ch.IsLFE
	}
	return flags
}

// PolarPositions returns the nominal polar position of every channel in
// declaration order.
func (l Layout) PolarPositions() []adm.PolarPosition {
	pos := make([]adm.PolarPosition, len(l.Channels))
	for i, ch := range l.Channels {
		pos[i] = ch.Position
	}
	return pos
}

// ChannelNames returns the channel names in declaration order.
func (l Layout) ChannelNames() []string {
	names := make([]string, len(l.Channels))
	for i, ch := range l.Channels {
		names[i] = ch.Name
	}
	return names
}

func (l Layout) String() string {
	return fmt.Sprintf("%s (%d channels)", l.Name, len(l.Channels))
}
