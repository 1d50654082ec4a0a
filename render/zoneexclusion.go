package render

import (
	"math"

	"github.com/spatialkit/admrender/adm"
	"github.com/spatialkit/admrender/internal/geom"
	"github.com/spatialkit/admrender/layout"
)

// Zone membership tolerances: angular for polar zones, positional for
// cartesian zones.
const (
	zoneAngleTol = 1e-6
	zoneCartTol  = 1e-6
)

// Vertical layers in floor-to-ceiling order, used to rank downmix targets
// for excluded loudspeakers.
const (
	layerBottom = iota
	layerMid
	layerUpper
	layerTop
)

// layerPriority ranks output layers per input layer: lower is preferred.
// A speaker reroutes within its own layer first, then to the nearest layer,
// preferring the mid layer over larger vertical jumps.
var layerPriority = [4][4]int{
	layerBottom: {0, 1, 2, 3},
	layerMid:    {2, 0, 1, 3},
	layerUpper:  {3, 1, 0, 2},
	layerTop:    {3, 2, 1, 0},
}

func layerOf(channelName string) int {
	if len(channelName) == 0 {
		return layerMid
	}
	switch channelName[0] {
	case 'B':
		return layerBottom
	case 'U':
		return layerUpper
	case 'T':
		return layerTop
	default:
		return layerMid
	}
}

// ZoneExclusionHandler removes excluded loudspeakers from a gain vector and
// reroutes their energy to the nearest surviving loudspeakers, ranked by
// layer priority and then azimuth distance.
type ZoneExclusionHandler struct {
	nCh    int
	polar  []adm.PolarPosition
	cart   []adm.CartesianPosition
	layers []int

	excluded []bool
	power    []float64
}

// NewZoneExclusion builds the handler for a loudspeaker layout. Room
// coordinates are used for cartesian zone tests when the layout has them;
// geometric positions otherwise.
func NewZoneExclusion(l layout.Layout) *ZoneExclusionHandler {
	stripped := l.WithoutLFE()
	n := len(stripped.Channels)
	z := &ZoneExclusionHandler{
		nCh:      n,
		polar:    make([]adm.PolarPosition, n),
		cart:     make([]adm.CartesianPosition, n),
		layers:   make([]int, n),
		excluded: make([]bool, n),
		power:    make([]float64, n),
	}
	alloPos, hasAllo := stripped.AllocentricPositions()
	for i, ch := range stripped.Channels {
		z.polar[i] = ch.Position
		if hasAllo {
			z.cart[i] = alloPos[i]
		} else {
			z.cart[i] = adm.PolarToCartesian(ch.Position)
		}
		z.layers[i] = layerOf(ch.Name)
	}
	return z
}

// GetExcluded writes one flag per channel indicating membership in any of
// the supplied zones. excluded must have the handler's channel count.
func (z *ZoneExclusionHandler) GetExcluded(zones []adm.ExclusionZone, excluded []bool) {
	for i := 0; i < z.nCh; i++ {
		excluded[i] = false
		for _, zone := range zones {
			if z.inZone(i, zone) {
				excluded[i] = true
				break
			}
		}
	}
}

func (z *ZoneExclusionHandler) inZone(ch int, zone adm.ExclusionZone) bool {
	if zone.Polar {
		p := z.polar[ch]
		return p.Elevation >= zone.MinElevation-zoneAngleTol &&
			p.Elevation <= zone.MaxElevation+zoneAngleTol &&
			geom.InsideAngleRange(p.Azimuth, zone.MinAzimuth, zone.MaxAzimuth, zoneAngleTol)
	}
	c := z.cart[ch]
	return c.X >= zone.MinX-zoneCartTol && c.X <= zone.MaxX+zoneCartTol &&
		c.Y >= zone.MinY-zoneCartTol && c.Y <= zone.MaxY+zoneCartTol &&
		c.Z >= zone.MinZ-zoneCartTol && c.Z <= zone.MaxZ+zoneCartTol
}

// Handle reroutes the gains of excluded channels in place. Redistribution
// is power-preserving: each excluded channel's squared gain is shared
// equally over its target set. When no channel or every channel is
// excluded the gains pass through unchanged.
func (z *ZoneExclusionHandler) Handle(zones []adm.ExclusionZone, gains []float64) {
	if len(zones) == 0 {
		return
	}
	z.GetExcluded(zones, z.excluded)

	nExcluded := 0
	for _, e := range z.excluded {
		if e {
			nExcluded++
		}
	}
	if nExcluded == 0 || nExcluded == z.nCh {
		return
	}

	for i := range z.power {
		if z.excluded[i] {
			z.power[i] = 0
		} else {
			z.power[i] = gains[i] * gains[i]
		}
	}

	for i := 0; i < z.nCh; i++ {
		if !z.excluded[i] || gains[i] == 0 {
			continue
		}
		targets := z.downmixTargets(i)
		if len(targets) == 0 {
			continue
		}
		share := gains[i] * gains[i] / float64(len(targets))
		for _, t := range targets {
			z.power[t] += share
		}
	}

	for i := range gains {
		gains[i] = math.Sqrt(z.power[i])
	}
}

// downmixTargets returns the set of non-excluded channels minimising the
// (layer priority, azimuth distance) pair for the excluded channel ch.
func (z *ZoneExclusionHandler) downmixTargets(ch int) []int {
	bestPrio := math.MaxInt
	bestAz := math.Inf(1)
	var targets []int
	for j := 0; j < z.nCh; j++ {
		if z.excluded[j] {
			continue
		}
		prio := layerPriority[z.layers[ch]][z.layers[j]]
		azDist := math.Abs(geom.WrapAngle(z.polar[ch].Azimuth - z.polar[j].Azimuth))
		switch {
		case prio < bestPrio || (prio == bestPrio && azDist < bestAz-zoneAngleTol):
			bestPrio = prio
			bestAz = azDist
			targets = targets[:0]
			targets = append(targets, j)
		case prio == bestPrio && math.Abs(azDist-bestAz) <= zoneAngleTol:
			targets = append(targets, j)
		}
	}
	return targets
}
