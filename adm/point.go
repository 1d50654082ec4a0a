package adm

import (
	"math"

	"github.com/spatialkit/admrender/internal/geom"
)

// elTop / elDashTop are the elevation breakpoints of the piecewise mapping
// between the polar and cartesian metadata conventions: polar elevations up
// to 30 degrees map linearly onto projected elevations up to 45 degrees,
// with the remaining range compressed above that.
const (
	elTop     = 30.0
	elDashTop = 45.0
)

// pointTol is the threshold below which a cartesian position is treated as
// lying on the vertical axis, where the sector lookup is undefined.
const pointTol = 1e-10

// MapAzToLinear maps an azimuth lying between the azimuths azL and azR onto
// a linear coordinate in [0, 1] using the tangent-based correspondence of
// the metadata conversion. All angles are in degrees.
func MapAzToLinear(azL, azR, az float64) float64 {
	azMid := 0.5 * (azL + azR)
	azRange := azR - azMid
	azRel := az - azMid
	gr := 0.5 * (1 + math.Tan(geom.DegToRad*azRel)/math.Tan(geom.DegToRad*azRange))
	return 2 / math.Pi * math.Atan2(gr, 1-gr)
}

// MapLinearToAz is the inverse of MapAzToLinear: it maps a linear coordinate
// in [0, 1] back to an azimuth between azL and azR.
func MapLinearToAz(azL, azR, x float64) float64 {
	azMid := 0.5 * (azL + azR)
	azRange := azR - azMid
	gdl := math.Cos(x * math.Pi / 2)
	gdr := math.Sin(x * math.Pi / 2)
	gr := gdr / (gdl + gdr)
	azRel := geom.RadToDeg * math.Atan(2*(gr-0.5)*math.Tan(geom.DegToRad*azRange))
	return azMid + azRel
}

// PointPolarToCart converts a polar metadata position to the cartesian
// metadata convention. This is not a geometric conversion: elevation is
// remapped piecewise at the 30/45 degree breakpoint and azimuth runs through
// the per-sector linear correspondence.
func PointPolarToCart(polar PolarPosition) CartesianPosition {
	az := polar.Azimuth
	el := polar.Elevation
	d := polar.Distance

	var z, rxy float64
	if math.Abs(el) > elTop {
		elDash := elDashTop + (90-elDashTop)*(math.Abs(el)-elTop)/(90-elTop)
		z = d * geom.Sgn(el)
		rxy = d * math.Tan(geom.DegToRad*(90-elDash))
	} else {
		elDash := elDashTop * el / elTop
		z = d * math.Tan(geom.DegToRad*elDash)
		rxy = d
	}

	sec, _ := FindSector(az)
	azDash := geom.RelativeAngle(sec.AzRight, az)
	azDashL := geom.RelativeAngle(sec.AzRight, sec.AzLeft)
	p := MapAzToLinear(azDashL, sec.AzRight, azDash)
	x := rxy * (sec.Left[0] + p*(sec.Right[0]-sec.Left[0]))
	y := rxy * (sec.Left[1] + p*(sec.Right[1]-sec.Left[1]))

	return CartesianPosition{X: x, Y: y, Z: z}
}

// PointCartToPolar converts a cartesian metadata position to the polar
// metadata convention. Positions on the vertical axis bypass the sector
// lookup: they map to azimuth 0 and elevation +/-90, or to the origin.
func PointCartToPolar(cart CartesianPosition) PolarPosition {
	x, y, z := cart.X, cart.Y, cart.Z

	if math.Abs(x) < pointTol && math.Abs(y) < pointTol {
		if math.Abs(z) < pointTol {
			return PolarPosition{}
		}
		return PolarPosition{Azimuth: 0, Elevation: 90 * geom.Sgn(z), Distance: math.Abs(z)}
	}

	azDash := -geom.RadToDeg * math.Atan2(x, y)
	sec, _ := FindCartSector(azDash)
	xl, yl := sec.Left[0], sec.Left[1]
	xr, yr := sec.Right[0], sec.Right[1]

	det := xl*yr - yl*xr
	// g solves [x y] = g * [corners]: the position expressed in the basis of
	// the sector's two corner points.
	g0 := x*(yr/det) + y*(-xr/det)
	g1 := x*(-yl/det) + y*(xl/det)
	rxy := g0 + g1
	azDashL := geom.RelativeAngle(sec.AzRight, sec.AzLeft)
	azRel := MapLinearToAz(azDashL, sec.AzRight, g1/rxy)
	az := geom.RelativeAngle(-180, azRel)
	elDash := geom.RadToDeg * math.Atan(z/rxy)

	var el, d float64
	if math.Abs(elDash) > elDashTop {
		el = math.Abs(elTop+(90-elTop)*(math.Abs(elDash)-elDashTop)/(90-elDashTop)) * geom.Sgn(elDash)
		d = math.Abs(z)
	} else {
		el = elDash * elTop / elDashTop
		d = rxy
	}

	return PolarPosition{Azimuth: az, Elevation: el, Distance: d}
}
