// Package adm models object-audio metadata and the metadata-domain
// coordinate conversions defined by Rec. ITU-R BS.2127.
//
// Positions come in two conventions: polar (azimuth/elevation in degrees,
// distance) and cartesian (room-relative x/y/z). The conversion between the
// two metadata conventions is deliberately non-Euclidean; use
// PointPolarToCart/PointCartToPolar for metadata and PolarToCartesian/
// CartesianToPolar for plain geometry.
package adm

import "github.com/spatialkit/admrender/internal/geom"

// PolarPosition is a position in the polar metadata convention. Azimuth and
// elevation are in degrees, azimuth increasing anticlockwise from the front.
type PolarPosition struct {
	Azimuth   float64
	Elevation float64
	Distance  float64
}

// CartesianPosition is a position in the cartesian metadata convention:
// X=right, Y=front, Z=up.
type CartesianPosition struct {
	X, Y, Z float64
}

// Vec returns the position as a geometry vector.
func (c CartesianPosition) Vec() geom.Vec3 {
	return geom.Vec3{c.X, c.Y, c.Z}
}

// FromVec builds a CartesianPosition from a geometry vector.
func FromVec(v geom.Vec3) CartesianPosition {
	return CartesianPosition{X: v[0], Y: v[1], Z: v[2]}
}

// Position is a tagged union of the two position conventions. Exactly one
// variant is active; IsPolar reports which.
type Position struct {
	polar     PolarPosition
	cartesian CartesianPosition
	isPolar   bool
}

// PolarPos returns a Position holding the polar variant.
func PolarPos(azimuth, elevation, distance float64) Position {
	return Position{
		polar:   PolarPosition{Azimuth: azimuth, Elevation: elevation, Distance: distance},
		isPolar: true,
	}
}

// CartesianPos returns a Position holding the cartesian variant.
func CartesianPos(x, y, z float64) Position {
	return Position{cartesian: CartesianPosition{X: x, Y: y, Z: z}}
}

// IsPolar reports whether the polar variant is active.
func (p Position) IsPolar() bool { return p.isPolar }

// Polar returns the polar variant. It is only meaningful when IsPolar is true.
func (p Position) Polar() PolarPosition { return p.polar }

// Cartesian returns the cartesian variant. It is only meaningful when IsPolar
// is false.
func (p Position) Cartesian() CartesianPosition { return p.cartesian }

// PolarToCartesian converts geometrically, preserving the radial distance.
func PolarToCartesian(p PolarPosition) CartesianPosition {
	return FromVec(geom.SphericalToCartesian(p.Azimuth, p.Elevation, p.Distance))
}

// CartesianToPolar is the geometric inverse of PolarToCartesian.
func CartesianToPolar(c CartesianPosition) PolarPosition {
	az, el, d := geom.CartesianToSpherical(c.Vec())
	return PolarPosition{Azimuth: az, Elevation: el, Distance: d}
}
