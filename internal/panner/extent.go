package panner

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/spatialkit/admrender/adm"
	"github.com/spatialkit/admrender/internal/geom"
)

const (
	// minExtent is the extent angle in degrees below which a source is
	// rendered as a pure point; between 0 and minExtent the point and
	// spread renderings are crossfaded.
	minExtent = 5.0

	// extentMinSize/extentMaxSize bound the aperture used when converting
	// an extent angle into an apparent size for distance modification.
	extentMinSize = 0.2
	extentMaxSize = 0.8

	// spreadFade is the angular width in degrees of the roll-off band at
	// the edge of the spread weighting function.
	spreadFade = 10.0

	// gridStep is the angular spacing in degrees of the virtual source
	// grid sampled by the spread panners.
	gridStep = 5.0
)

// spreadDirections returns a near-uniform grid of unit directions over the
// sphere: elevation rings every gridStep degrees with the azimuth count
// scaled by the ring circumference, plus both poles.
func spreadDirections() []geom.Vec3 {
	var dirs []geom.Vec3
	for el := -90.0 + gridStep; el <= 90.0-gridStep+1e-9; el += gridStep {
		nAz := int(math.Max(1, math.Round(360*math.Cos(geom.DegToRad*el)/gridStep)))
		for i := 0; i < nAz; i++ {
			az := -180 + 360*float64(i)/float64(nAz)
			dirs = append(dirs, geom.SphericalToCartesian(az, el, 1))
		}
	}
	dirs = append(dirs,
		geom.SphericalToCartesian(0, 90, 1),
		geom.SphericalToCartesian(0, -90, 1),
	)
	return dirs
}

// spreadWeight evaluates the extent weighting function for one virtual
// source direction. The weighted region is a stadium on the sphere: a
// circular cap of diameter height swept along the azimuth arc of the wider
// width angle, with a linear roll-off of spreadFade degrees at its edge.
// basis is the local coordinate frame at the source position, with the
// sweep running in the basis[0]/basis[1] plane.
func spreadWeight(dir geom.Vec3, basis [3]geom.Vec3, widthDeg, heightDeg float64) float64 {
	if heightDeg > widthDeg {
		widthDeg, heightDeg = heightDeg, widthDeg
		basis[0], basis[2] = basis[2], basis[0]
	}
	arc := 0.5 * (widthDeg - heightDeg)

	lx := dir.Dot(basis[0])
	ly := dir.Dot(basis[1])
	a := geom.Clamp(geom.RadToDeg*math.Atan2(lx, ly), -arc, arc)
	closest := basis[1].Scale(math.Cos(geom.DegToRad * a)).Add(basis[0].Scale(math.Sin(geom.DegToRad * a)))
	dist := geom.AngleBetween(dir, closest)

	return geom.Clamp(1-(dist-0.5*heightDeg)/spreadFade, 0, 1)
}

// spreadPanner spreads a source over the loudspeakers by mixing the
// point-source gains of a fixed grid of virtual sources, weighted by the
// extent weighting function. Grid gains are precomputed per layout.
type spreadPanner struct {
	dirs     []geom.Vec3
	dirGains [][]float64
	nCh      int
}

func newSpreadPanner(psp *PointSource) *spreadPanner {
	sp := &spreadPanner{dirs: spreadDirections(), nCh: psp.NumChannels()}
	sp.dirGains = make([][]float64, len(sp.dirs))
	for i, d := range sp.dirs {
		g := make([]float64, sp.nCh)
		psp.Handle(d, g)
		sp.dirGains[i] = g
	}
	return sp
}

// calculateGains writes the L2-normalised spread gains for the given source
// direction and extent angles.
func (sp *spreadPanner) calculateGains(azDeg, elDeg, widthDeg, heightDeg float64, gains []float64) {
	for i := range gains {
		gains[i] = 0
	}
	basis := geom.LocalCoordinateSystem(azDeg, elDeg)
	for i, d := range sp.dirs {
		w := spreadWeight(d, basis, widthDeg, heightDeg)
		if w <= 0 {
			continue
		}
		src := sp.dirGains[i]
		for ch := 0; ch < sp.nCh; ch++ {
			gains[ch] += w * src[ch]
		}
	}
	normalizeL2(gains)
}

// PolarExtent renders polar-extent sources: the extent angles are first
// modified by source distance, a depth extent evaluates the spread at two
// distances and power-averages, and small extents crossfade into the plain
// point-source rendering.
type PolarExtent struct {
	psp    *PointSource
	spread *spreadPanner

	gainsPoint  []float64
	gainsSpread []float64
	gainsNear   []float64
	gainsFar    []float64
}

// NewPolarExtent builds the extent renderer on top of a point-source
// panner, precomputing the virtual-source grid gains.
func NewPolarExtent(psp *PointSource) *PolarExtent {
	n := psp.NumChannels()
	return &PolarExtent{
		psp:         psp,
		spread:      newSpreadPanner(psp),
		gainsPoint:  make([]float64, n),
		gainsSpread: make([]float64, n),
		gainsNear:   make([]float64, n),
		gainsFar:    make([]float64, n),
	}
}

// extentModification scales an extent angle by the source distance: a
// nearby source subtends a larger angle, a distant one collapses towards
// its nominal extent.
func extentModification(distance, extent float64) float64 {
	size := extentMinSize + (extentMaxSize-extentMinSize)*extent/360
	e1 := 4 * geom.RadToDeg * math.Atan2(size, 1)
	ed := 4 * geom.RadToDeg * math.Atan2(size, distance)
	if ed < e1 {
		return ed * extent / e1
	}
	return extent + (ed-e1)*(360-extent)/(360-e1)
}

// Handle writes the gains for a source at the given position with the given
// polar extent. gains must have the panner's channel count.
func (pe *PolarExtent) Handle(pos adm.CartesianPosition, width, height, depth float64, gains []float64) {
	v := pos.Vec()
	distance := v.Norm()

	if depth != 0 {
		d1 := math.Max(0, distance+depth/2)
		d2 := math.Max(0, distance-depth/2)
		pe.extentGains(v, extentModification(d1, width), extentModification(d1, height), pe.gainsNear)
		pe.extentGains(v, extentModification(d2, width), extentModification(d2, height), pe.gainsFar)
		for i := range gains {
			gains[i] = math.Sqrt(0.5 * (pe.gainsNear[i]*pe.gainsNear[i] + pe.gainsFar[i]*pe.gainsFar[i]))
		}
		return
	}

	pe.extentGains(v, extentModification(distance, width), extentModification(distance, height), gains)
}

// extentGains crossfades between point and spread renderings in the power
// domain according to the larger extent angle.
func (pe *PolarExtent) extentGains(v geom.Vec3, width, height float64, gains []float64) {
	p := geom.Clamp(math.Max(width, height)/minExtent, 0, 1)

	if p < 1 {
		pe.psp.Handle(v, pe.gainsPoint)
	}
	if p > 0 {
		az, el, _ := geom.CartesianToSpherical(v)
		pe.spread.calculateGains(az, el, width, height, pe.gainsSpread)
	}

	switch {
	case p <= 0:
		copy(gains, pe.gainsPoint)
	case p >= 1:
		copy(gains, pe.gainsSpread)
	default:
		for i := range gains {
			gains[i] = math.Sqrt(p*pe.gainsSpread[i]*pe.gainsSpread[i] + (1-p)*pe.gainsPoint[i]*pe.gainsPoint[i])
		}
	}
}

func normalizeL2(gains []float64) {
	norm := floats.Norm(gains, 2)
	if norm == 0 {
		return
	}
	floats.Scale(1/norm, gains)
}
