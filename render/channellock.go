// Package render computes per-object direct and diffuse panning gains over
// a fixed output layout: the top-level gain calculator plus the position
// and gain transforms it orchestrates (channel lock, zone exclusion, screen
// remapping, divergence).
package render

import (
	"math"

	"github.com/spatialkit/admrender/adm"
	"github.com/spatialkit/admrender/layout"
)

// lockTieTol groups loudspeakers whose lock distances differ by no more
// than this into one equidistant set.
const lockTieTol = 1e-6

// DistanceFunc measures how far a source position is from a loudspeaker
// candidate. The two panning modes supply different metrics.
type DistanceFunc func(src, spk adm.CartesianPosition) float64

// PolarLockDistance compares directions on the unit sphere, ignoring the
// source's radial distance.
func PolarLockDistance(src, spk adm.CartesianPosition) float64 {
	return src.Vec().Unit().Sub(spk.Vec().Unit()).Norm()
}

// AlloLockDistance compares room-relative coordinates directly.
func AlloLockDistance(src, spk adm.CartesianPosition) float64 {
	return src.Vec().Sub(spk.Vec()).Norm()
}

// ChannelLockHandler snaps source positions to the nearest eligible
// loudspeaker. The distance metric is supplied as data so the same
// algorithm serves both the polar and room-relative modes.
type ChannelLockHandler struct {
	spkPos   []adm.CartesianPosition
	distance DistanceFunc

	dists []float64
}

// NewPolarChannelLock builds the handler over the unit-sphere directions of
// the LFE-stripped layout channels.
func NewPolarChannelLock(l layout.Layout) *ChannelLockHandler {
	stripped := l.WithoutLFE()
	pos := make([]adm.CartesianPosition, 0, len(stripped.Channels))
	for _, ch := range stripped.Channels {
		p := ch.Position
		p.Distance = 1
		pos = append(pos, adm.PolarToCartesian(p))
	}
	return &ChannelLockHandler{
		spkPos:   pos,
		distance: PolarLockDistance,
		dists:    make([]float64, len(pos)),
	}
}

// NewAlloChannelLock builds the handler over room-relative loudspeaker
// coordinates.
func NewAlloChannelLock(positions []adm.CartesianPosition) *ChannelLockHandler {
	return &ChannelLockHandler{
		spkPos:   append([]adm.CartesianPosition(nil), positions...),
		distance: AlloLockDistance,
		dists:    make([]float64, len(positions)),
	}
}

// Handle returns the locked position for the source. A nil lock returns the
// position unchanged. With MaxDistance set, only loudspeakers within that
// distance are candidates; when none qualifies the original position is
// kept. Equidistant nearest candidates are averaged.
func (h *ChannelLockHandler) Handle(lock *adm.ChannelLock, pos adm.CartesianPosition, excluded []bool) adm.CartesianPosition {
	if lock == nil {
		return pos
	}

	best := math.Inf(1)
	any := false
	for i, spk := range h.spkPos {
		if excluded != nil && i < len(excluded) && excluded[i] {
			h.dists[i] = math.Inf(1)
			continue
		}
		d := h.distance(pos, spk)
		if lock.MaxDistance != nil && d > *lock.MaxDistance {
			h.dists[i] = math.Inf(1)
			continue
		}
		h.dists[i] = d
		if d < best {
			best = d
		}
		any = true
	}
	if !any {
		return pos
	}

	var sum adm.CartesianPosition
	n := 0
	for i, d := range h.dists {
		if d-best <= lockTieTol {
			sum.X += h.spkPos[i].X
			sum.Y += h.spkPos[i].Y
			sum.Z += h.spkPos[i].Z
			n++
		}
	}
	inv := 1 / float64(n)
	return adm.CartesianPosition{X: sum.X * inv, Y: sum.Y * inv, Z: sum.Z * inv}
}
