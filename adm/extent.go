package adm

import (
	"math"

	"github.com/spatialkit/admrender/internal/geom"
)

// WHDToXYZ converts a polar extent (width/height in degrees, depth as a
// distance) into per-axis cartesian sizes. The sine shaping saturates at a
// 180 degree extent.
func WHDToXYZ(w, h, d float64) (x, y, z float64) {
	sxw := 1.0
	if w < 180 {
		sxw = math.Sin(geom.DegToRad * w * 0.5)
	}
	syw := 0.5 * (1 - math.Cos(geom.DegToRad*w*0.5))
	szh := 1.0
	if h < 180 {
		szh = math.Sin(geom.DegToRad * h * 0.5)
	}
	syh := 0.5 * (1 - math.Cos(geom.DegToRad*h*0.5))

	x = sxw
	y = math.Max(math.Max(syw, syh), d)
	z = szh
	return x, y, z
}

// XYZToWHD converts per-axis cartesian extent sizes back to a polar
// width/height/depth triple.
func XYZToWHD(sx, sy, sz float64) (w, h, d float64) {
	wsx := 2 * geom.RadToDeg * math.Asin(sx)
	wsy := 2 * geom.RadToDeg * math.Acos(1-2*sy)
	w = wsx + sx*math.Max(wsy-wsx, 0)

	hsz := 2 * geom.RadToDeg * math.Asin(sz)
	hsy := 2 * geom.RadToDeg * math.Acos(1-2*sy)
	h = hsz + sz*math.Max(hsy-hsz, 0)

	// Depth is whatever y-size remains once the equivalent zero-depth
	// extent has been accounted for.
	_, yEq, _ := WHDToXYZ(w, h, 0)
	d = math.Max(0, sy-yEq)
	return w, h, d
}

// scaledFrameNorms treats the sizes as a diagonal scaling of the local
// coordinate frame at (az, el) and returns the norms of the scaled basis
// vectors, one per axis.
func scaledFrameNorms(azDeg, elDeg float64, s [3]float64) (nx, ny, nz float64) {
	frame := geom.LocalCoordinateSystem(azDeg, elDeg)
	var m [3]geom.Vec3
	for i := 0; i < 3; i++ {
		m[i] = frame[i].Scale(s[i])
	}
	nx = math.Sqrt(m[0][0]*m[0][0] + m[1][0]*m[1][0] + m[2][0]*m[2][0])
	ny = math.Sqrt(m[0][1]*m[0][1] + m[1][1]*m[1][1] + m[2][1]*m[2][1])
	nz = math.Sqrt(m[0][2]*m[0][2] + m[1][2]*m[1][2] + m[2][2]*m[2][2])
	return nx, ny, nz
}

// ExtentCartToPolar converts a cartesian position and extent to the polar
// convention.
func ExtentCartToPolar(pos CartesianPosition, sx, sy, sz float64) (PolarPosition, [3]float64) {
	polar := PointCartToPolar(pos)
	nx, ny, nz := scaledFrameNorms(polar.Azimuth, polar.Elevation, [3]float64{sx, sy, sz})
	w, h, d := XYZToWHD(nx, ny, nz)
	return polar, [3]float64{w, h, d}
}

// ExtentPolarToCart converts a polar position and extent to the cartesian
// convention.
func ExtentPolarToCart(pos PolarPosition, w, h, d float64) (CartesianPosition, [3]float64) {
	cart := PointPolarToCart(pos)
	sx, sy, sz := WHDToXYZ(w, h, d)
	nx, ny, nz := scaledFrameNorms(pos.Azimuth, pos.Elevation, [3]float64{sx, sy, sz})
	return cart, [3]float64{nx, ny, nz}
}
