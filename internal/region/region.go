// Package region implements the gain solvers for the convex loudspeaker
// regions used by the point-source panner: spherical triangles, convex
// quadrilaterals and virtual-centre N-gons.
//
// Every handler maps a 3-D direction vector onto non-negative, L2-normalised
// gains over its subset of channels. A direction outside the handler's
// region yields all-zero gains; that is a normal outcome, not an error.
package region

import (
	"math"
	"sort"

	"github.com/spatialkit/admrender/adm"
	"github.com/spatialkit/admrender/internal/geom"
)

// gainTol absorbs rounding error when deciding whether a solved gain is
// negative (outside the region) or a panning value has left [0, 1].
const gainTol = 1e-10

// Handler solves panning gains for one region of a loudspeaker layout.
type Handler interface {
	// Channels returns the layout channel index for each of the handler's
	// gain slots.
	Channels() []int
	// CalculateGains writes one gain per channel slot into gains, which
	// must have length len(Channels()). Directions outside the region
	// produce all zeros.
	CalculateGains(dir geom.Vec3, gains []float64)
}

// unitVector returns the unit direction toward a loudspeaker, ignoring its
// distance.
func unitVector(p adm.PolarPosition) geom.Vec3 {
	return geom.SphericalToCartesian(p.Azimuth, p.Elevation, 1)
}

// ngonVertexOrder orders the vertices anticlockwise around the centre
// direction, as seen from the origin looking outward through the centre.
func ngonVertexOrder(pos []adm.PolarPosition, centre adm.PolarPosition) []int {
	frame := geom.LocalCoordinateSystem(centre.Azimuth, centre.Elevation)
	type vertexAngle struct {
		index int
		angle float64
	}
	angles := make([]vertexAngle, len(pos))
	for i, p := range pos {
		v := unitVector(p)
		angles[i] = vertexAngle{
			index: i,
			angle: math.Atan2(v.Dot(frame[2]), v.Dot(frame[0])),
		}
	}
	sort.Slice(angles, func(a, b int) bool { return angles[a].angle < angles[b].angle })
	order := make([]int, len(pos))
	for i, va := range angles {
		order[i] = va.index
	}
	return order
}

func zeroGains(gains []float64) {
	for i := range gains {
		gains[i] = 0
	}
}

func l2Norm(gains []float64) float64 {
	var sum float64
	for _, g := range gains {
		sum += g * g
	}
	return math.Sqrt(sum)
}
