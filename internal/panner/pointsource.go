// Package panner maps source directions to loudspeaker or ambisonic gain
// vectors: point-source panning over a partitioned layout, extent spreading
// in polar and room-relative modes, and spherical-harmonic encoding.
package panner

import (
	"fmt"
	"math"
	"sort"

	"github.com/spatialkit/admrender/adm"
	"github.com/spatialkit/admrender/internal/geom"
	"github.com/spatialkit/admrender/internal/region"
)

// ringElevationTol groups loudspeakers into elevation rings: two speakers
// whose elevations differ by no more than this are treated as one ring.
const ringElevationTol = 10.0

// quadAlignTol is the azimuth tolerance for pairing speakers of two
// adjacent rings into a quadrilateral region instead of two triangles.
const quadAlignTol = 5.0

// capSpanGap is the largest azimuth gap a ring may have while still being
// considered to span the full circle for polar-cap construction.
const capSpanGap = 170.0

// activeGainTol is the smallest summed gain treated as a region hit.
const activeGainTol = 1e-9

type ringSpeaker struct {
	index int // channel index in the LFE-stripped layout
	az    float64
	pos   adm.PolarPosition
}

// PointSource pans a unit direction over a loudspeaker layout partitioned
// into triplet, quadrilateral and polar-cap N-gon regions. The partition is
// built once per layout and is immutable afterwards.
type PointSource struct {
	numChannels int
	regions     []region.Handler
	scratch     []float64
}

// NewPointSource partitions the given loudspeaker directions (distance is
// ignored; positions are normalised onto the unit sphere) into panning
// regions covering the sphere. It fails for layouts with fewer than two
// loudspeakers or with degenerate geometry.
func NewPointSource(positions []adm.PolarPosition) (*PointSource, error) {
	if len(positions) < 2 {
		return nil, fmt.Errorf("point-source panner needs at least 2 channels, got %d", len(positions))
	}

	rings := buildRings(positions)
	p := &PointSource{numChannels: len(positions)}

	if len(rings) == 1 {
		if err := p.addCap(rings[0], 90); err != nil {
			return nil, err
		}
		if err := p.addCap(rings[0], -90); err != nil {
			return nil, err
		}
	} else {
		for i := 0; i < len(rings)-1; i++ {
			if err := p.addStrip(rings[i], rings[i+1]); err != nil {
				return nil, err
			}
		}
		if err := p.addTopBottomCaps(rings); err != nil {
			return nil, err
		}
	}

	maxRegion := 0
	for _, r := range p.regions {
		if n := len(r.Channels()); n > maxRegion {
			maxRegion = n
		}
	}
	p.scratch = make([]float64, maxRegion)
	return p, nil
}

// NumChannels returns the channel count the panner produces gains for.
func (p *PointSource) NumChannels() int { return p.numChannels }

// Handle evaluates the panning regions in partition order and writes the
// first non-zero region result into gains, which must have length
// NumChannels. A direction outside every region leaves gains all zero.
func (p *PointSource) Handle(dir geom.Vec3, gains []float64) {
	for i := range gains {
		gains[i] = 0
	}
	dir = dir.Unit()
	for _, r := range p.regions {
		chans := r.Channels()
		sub := p.scratch[:len(chans)]
		r.CalculateGains(dir, sub)
		var sum float64
		for _, g := range sub {
			sum += g
		}
		if sum > activeGainTol {
			for i, ch := range chans {
				gains[ch] = sub[i]
			}
			return
		}
	}
}

// buildRings clusters the loudspeakers into elevation rings sorted from
// lowest to highest, each ring sorted by increasing azimuth.
func buildRings(positions []adm.PolarPosition) [][]ringSpeaker {
	speakers := make([]ringSpeaker, len(positions))
	for i, pos := range positions {
		speakers[i] = ringSpeaker{index: i, az: geom.WrapAngle(pos.Azimuth), pos: pos}
	}
	sort.Slice(speakers, func(a, b int) bool {
		return speakers[a].pos.Elevation < speakers[b].pos.Elevation
	})

	var rings [][]ringSpeaker
	for _, s := range speakers {
		n := len(rings)
		if n == 0 || s.pos.Elevation-rings[n-1][0].pos.Elevation > ringElevationTol {
			rings = append(rings, []ringSpeaker{s})
		} else {
			rings[n-1] = append(rings[n-1], s)
		}
	}
	for _, ring := range rings {
		sort.Slice(ring, func(a, b int) bool { return ring[a].az < ring[b].az })
	}
	return rings
}

// spansCircle reports whether the ring's speakers cover the full azimuth
// circle without a gap larger than capSpanGap. The ring must be sorted by
// increasing azimuth.
func spansCircle(ring []ringSpeaker) bool {
	n := len(ring)
	if n < 2 {
		return false
	}
	for i := 0; i < n; i++ {
		var gap float64
		if i == n-1 {
			gap = ring[0].az + 360 - ring[i].az
		} else {
			gap = ring[i+1].az - ring[i].az
		}
		if gap > capSpanGap {
			return false
		}
	}
	return true
}

// mergeCapRing widens a partial outermost ring with speakers from the ring
// beneath it so a polar cap can be built around the pole. Inner speakers
// sharing an azimuth with an outer one are skipped: keeping both would
// create a degenerate cap triangle through the pole.
func mergeCapRing(outer, inner []ringSpeaker) []ringSpeaker {
	merged := append([]ringSpeaker{}, outer...)
	for _, s := range inner {
		tooClose := false
		for _, o := range outer {
			d := absDiff(geom.WrapAngle(s.az-o.az), 0)
			if d < quadAlignTol || 360-d < quadAlignTol {
				tooClose = true
				break
			}
		}
		if !tooClose {
			merged = append(merged, s)
		}
	}
	sort.Slice(merged, func(a, b int) bool { return merged[a].az < merged[b].az })
	return merged
}

// addCap closes the sphere above (poleElevation=90) or below (-90) a ring
// with a virtual-centre N-gon at the pole.
func (p *PointSource) addCap(ring []ringSpeaker, poleElevation float64) error {
	if len(ring) < 2 {
		return fmt.Errorf("polar cap needs at least 2 channels, got %d", len(ring))
	}
	chans := make([]int, len(ring))
	pos := make([]adm.PolarPosition, len(ring))
	for i, s := range ring {
		chans[i] = s.index
		pos[i] = s.pos
	}
	centre := adm.PolarPosition{Azimuth: 0, Elevation: poleElevation, Distance: 1}
	ngon, err := region.NewVirtualNgon(chans, pos, centre)
	if err != nil {
		return err
	}
	p.regions = append(p.regions, ngon)
	return nil
}

// addTopBottomCaps closes the sphere above the highest and below the lowest
// ring. A top ring that only covers part of the circle (for example a
// single pair of height speakers) is merged with the ring beneath so the
// cap still surrounds the pole.
func (p *PointSource) addTopBottomCaps(rings [][]ringSpeaker) error {
	top := rings[len(rings)-1]
	if top[0].pos.Elevation < 90-ringElevationTol {
		capRing := top
		if !spansCircle(capRing) {
			capRing = mergeCapRing(top, rings[len(rings)-2])
		}
		if err := p.addCap(capRing, 90); err != nil {
			return err
		}
	}
	bottom := rings[0]
	if bottom[0].pos.Elevation > -90+ringElevationTol {
		capRing := bottom
		if !spansCircle(capRing) {
			capRing = mergeCapRing(bottom, rings[1])
		}
		if err := p.addCap(capRing, -90); err != nil {
			return err
		}
	}
	return nil
}

// addStrip tiles the band between two adjacent rings. Facing pairs of
// speakers whose azimuths align become quadrilaterals; the rest of the band
// is triangulated with a circular two-pointer walk over both rings.
func (p *PointSource) addStrip(lower, upper []ringSpeaker) error {
	na, nb := len(lower), len(upper)

	if nb == 1 {
		return p.addFan(lower, upper[0])
	}
	if na == 1 {
		return p.addFan(upper, lower[0])
	}

	base := lower[0].az

	// Unrolled azimuth sequences: seqA[k] is the azimuth of the k-th visit
	// to the lower ring, increasing monotonically and wrapping by +360.
	seqA := make([]float64, na+1)
	for k := 0; k <= na; k++ {
		seqA[k] = geom.RelativeAngle(base, lower[k%na].az) + 360*float64(k/na)
	}

	// The upper ring is visited starting at the speaker closest above base.
	ib0 := 0
	minRel := geom.RelativeAngle(base, upper[0].az)
	for j := 1; j < nb; j++ {
		if rel := geom.RelativeAngle(base, upper[j].az); rel < minRel {
			minRel = rel
			ib0 = j
		}
	}
	seqB := make([]float64, nb+1)
	wraps := 0.0
	prev := math.Inf(-1)
	for k := 0; k <= nb; k++ {
		raw := geom.RelativeAngle(base, upper[(ib0+k)%nb].az)
		if raw < prev {
			wraps += 360
		}
		prev = raw
		seqB[k] = raw + wraps
	}
	upperAt := func(k int) ringSpeaker { return upper[(ib0+k)%nb] }

	ia, ib := 0, 0
	for ia < na || ib < nb {
		if ia < na && ib < nb &&
			absDiff(seqA[ia], seqB[ib]) < quadAlignTol &&
			absDiff(seqA[ia+1], seqB[ib+1]) < quadAlignTol {
			quad, err := region.NewQuadRegion(
				[4]int{lower[ia].index, lower[(ia+1)%na].index, upperAt(ib + 1).index, upperAt(ib).index},
				[4]adm.PolarPosition{lower[ia].pos, lower[(ia+1)%na].pos, upperAt(ib + 1).pos, upperAt(ib).pos},
			)
			if err != nil {
				return err
			}
			p.regions = append(p.regions, quad)
			ia++
			ib++
			continue
		}

		useLower := ib >= nb || (ia < na && seqA[ia+1] <= seqB[ib+1])
		var t *region.Triplet
		var err error
		if useLower {
			t, err = region.NewTriplet(
				[3]int{lower[ia%na].index, lower[(ia+1)%na].index, upperAt(ib % nb).index},
				[3]adm.PolarPosition{lower[ia%na].pos, lower[(ia+1)%na].pos, upperAt(ib % nb).pos},
			)
			ia++
		} else {
			t, err = region.NewTriplet(
				[3]int{upperAt(ib).index, upperAt(ib + 1).index, lower[ia%na].index},
				[3]adm.PolarPosition{upperAt(ib).pos, upperAt(ib + 1).pos, lower[ia%na].pos},
			)
			ib++
		}
		if err != nil {
			return err
		}
		p.regions = append(p.regions, t)
	}
	return nil
}

// addFan connects every adjacent pair of a ring to a single apex speaker.
func (p *PointSource) addFan(ring []ringSpeaker, apex ringSpeaker) error {
	n := len(ring)
	for i := 0; i < n; i++ {
		t, err := region.NewTriplet(
			[3]int{ring[i].index, ring[(i+1)%n].index, apex.index},
			[3]adm.PolarPosition{ring[i].pos, ring[(i+1)%n].pos, apex.pos},
		)
		if err != nil {
			return err
		}
		p.regions = append(p.regions, t)
	}
	return nil
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
