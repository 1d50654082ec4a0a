package adm

import "github.com/spatialkit/admrender/internal/geom"

// sectorTol widens sector membership tests so that azimuths sitting exactly
// on a boundary land deterministically in the first matching sector.
const sectorTol = 1e-10

// Sector describes one of the five fixed azimuth sectors used by the
// polar/cartesian metadata mapping. AzLeft/AzRight are the sector's corner
// azimuths and Left/Right the matching corner points in the x-y plane.
type Sector struct {
	AzLeft, AzRight float64
	Left, Right     [2]float64
}

// The five sectors share corner data; only the azimuth ranges used for the
// lookup differ between the polar and cartesian directions.
var sectorCorners = [5]Sector{
	{AzLeft: 30, AzRight: 0, Left: [2]float64{-1, 1}, Right: [2]float64{0, 1}},
	{AzLeft: 0, AzRight: -30, Left: [2]float64{0, 1}, Right: [2]float64{1, 1}},
	{AzLeft: -30, AzRight: -110, Left: [2]float64{1, 1}, Right: [2]float64{1, -1}},
	{AzLeft: -110, AzRight: 110, Left: [2]float64{1, -1}, Right: [2]float64{-1, -1}},
	{AzLeft: 110, AzRight: 30, Left: [2]float64{-1, -1}, Right: [2]float64{-1, 1}},
}

// Membership arcs run anticlockwise from the first azimuth to the second.
var polarSectorRanges = [5][2]float64{
	{0, 30}, {-30, 0}, {-110, -30}, {110, -110}, {30, 110},
}

var cartSectorRanges = [5][2]float64{
	{0, 45}, {-45, 0}, {-135, -45}, {135, -135}, {45, 135},
}

func lookupSector(az float64, ranges *[5][2]float64) (Sector, bool) {
	for i, r := range ranges {
		if geom.InsideAngleRange(az, r[0], r[1], sectorTol) {
			return sectorCorners[i], true
		}
	}
	return Sector{}, false
}

// FindSector returns the sector containing the polar-convention azimuth az.
func FindSector(az float64) (Sector, bool) {
	return lookupSector(geom.WrapAngle(az), &polarSectorRanges)
}

// FindCartSector returns the sector containing the azimuth derived from a
// cartesian-convention position.
func FindCartSector(az float64) (Sector, bool) {
	return lookupSector(geom.WrapAngle(az), &cartSectorRanges)
}
