// Package geom provides the shared 3-vector and angle arithmetic used by the
// panning gain pipeline.
//
// Coordinate convention throughout: X=right, Y=front, Z=up, with azimuth in
// degrees increasing anticlockwise when seen from above (so +30 degrees is
// front-left) and elevation in degrees increasing upwards. This matches the
// broadcast object-audio metadata convention rather than the mathematical one.
package geom

import "math"

const (
	DegToRad = math.Pi / 180.0
	RadToDeg = 180.0 / math.Pi
)

// Vec3 is a fixed-size 3-vector in X, Y, Z order.
type Vec3 [3]float64

func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{s * v[0], s * v[1], s * v[2]}
}

func (v Vec3) Dot(w Vec3) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Unit returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// Sgn returns -1, 0 or 1 according to the sign of x.
func Sgn(x float64) float64 {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

// WrapAngle wraps an angle in degrees into (-180, 180].
func WrapAngle(az float64) float64 {
	az = math.Mod(az, 360)
	if az > 180 {
		az -= 360
	} else if az <= -180 {
		az += 360
	}
	return az
}

// RelativeAngle unwraps angle upwards so that it is not less than reference.
func RelativeAngle(reference, angle float64) float64 {
	for angle-reference < 0 {
		angle += 360
	}
	return angle
}

// InsideAngleRange reports whether azimuth az lies within the arc running
// anticlockwise (increasing azimuth) from startAz to endAz, widened by tol
// degrees at both ends. The arc from 110 to -110 therefore covers the rear,
// crossing +/-180.
func InsideAngleRange(az, startAz, endAz, tol float64) bool {
	rel := RelativeAngle(startAz-tol, az)
	end := RelativeAngle(startAz-tol, endAz)
	return rel <= end+2*tol
}

// SphericalToCartesian converts azimuth and elevation (degrees) and a radial
// distance into cartesian coordinates. This is the plain geometric mapping,
// used for loudspeaker directions and panning geometry.
func SphericalToCartesian(azimuthDeg, elevationDeg, distance float64) Vec3 {
	azRad := azimuthDeg * DegToRad
	elRad := elevationDeg * DegToRad
	cosEl := math.Cos(elRad)
	return Vec3{
		-distance * cosEl * math.Sin(azRad),
		distance * cosEl * math.Cos(azRad),
		distance * math.Sin(elRad),
	}
}

// CartesianToSpherical is the inverse of SphericalToCartesian. At the poles
// (x and y both zero) the returned azimuth is 0.
func CartesianToSpherical(v Vec3) (azimuthDeg, elevationDeg, distance float64) {
	distance = v.Norm()
	rxy := math.Hypot(v[0], v[1])
	if rxy == 0 && v[2] == 0 {
		return 0, 0, 0
	}
	azimuthDeg = -RadToDeg * math.Atan2(v[0], v[1])
	elevationDeg = RadToDeg * math.Atan2(v[2], rxy)
	return azimuthDeg, elevationDeg, distance
}

// LocalCoordinateSystem returns the orthonormal basis attached to the
// direction (az, el): row 0 points to the source's right, row 1 along the
// source direction and row 2 to its local up.
func LocalCoordinateSystem(azDeg, elDeg float64) [3]Vec3 {
	return [3]Vec3{
		SphericalToCartesian(azDeg-90, 0, 1),
		SphericalToCartesian(azDeg, elDeg, 1),
		SphericalToCartesian(azDeg, elDeg+90, 1),
	}
}

// AngleBetween returns the angle in degrees between two non-zero vectors.
func AngleBetween(a, b Vec3) float64 {
	d := a.Unit().Dot(b.Unit())
	if d > 1 {
		d = 1
	} else if d < -1 {
		d = -1
	}
	return RadToDeg * math.Acos(d)
}

// Clamp limits x to the range [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
