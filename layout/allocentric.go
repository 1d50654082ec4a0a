package layout

import (
	"math"
	"strconv"

	"github.com/spatialkit/admrender/adm"
)

// allocentricPosition derives the room-relative coordinates of a channel
// from its ITU-style name. Coordinates snap to the walls of the unit room:
// x in {-1, 0, 1} (left to right), y in {-1, 0, 1} (back to front), z in
// {-1, 0, 1} (floor to ceiling).
func allocentricPosition(ch Channel) (adm.CartesianPosition, bool) {
	name := ch.Name
	if len(name) < 2 {
		return adm.CartesianPosition{}, false
	}

	var z float64
	switch name[0] {
	case 'M':
		z = 0
	case 'U':
		z = 1
	case 'B':
		z = -1
	case 'T':
		return adm.CartesianPosition{X: 0, Y: 0, Z: 1}, true
	default:
		return adm.CartesianPosition{}, false
	}

	az, err := strconv.ParseFloat(name[1:], 64)
	if err != nil {
		return adm.CartesianPosition{}, false
	}

	absAz := math.Abs(az)
	var x float64
	switch {
	case absAz < 15 || absAz > 165:
		x = 0
	case az > 0:
		x = -1
	default:
		x = 1
	}
	var y float64
	switch {
	case absAz <= 60:
		y = 1
	case absAz < 100:
		y = 0
	default:
		y = -1
	}
	return adm.CartesianPosition{X: x, Y: y, Z: z}, true
}

// AllocentricPositions returns room-relative coordinates for every non-LFE
// channel, in declaration order of the LFE-stripped layout. The second
// return is false when any channel name has no known room position, in
// which case the layout cannot be used for room-relative panning.
func (l Layout) AllocentricPositions() ([]adm.CartesianPosition, bool) {
	if l.IsHOA() {
		return nil, false
	}
	var out []adm.CartesianPosition
	for _, ch := range l.Channels {
		if ch.IsLFE {
			continue
		}
		pos, ok := allocentricPosition(ch)
		if !ok {
			return nil, false
		}
		out = append(out, pos)
	}
	return out, len(out) > 0
}

// SupportsAllocentric reports whether room-relative panning is available for
// this layout.
func (l Layout) SupportsAllocentric() bool {
	_, ok := l.AllocentricPositions()
	return ok
}
