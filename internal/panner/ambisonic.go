package panner

import (
	"fmt"
	"math"

	"github.com/spatialkit/admrender/adm"
	"github.com/spatialkit/admrender/internal/geom"
)

// HOAChannels returns the component count of an ambisonic bus of the given
// order.
func HOAChannels(order int) int { return (order + 1) * (order + 1) }

// EncodeHOA writes the real spherical-harmonic coefficients for a plane
// wave from (az, el) into out, ACN component order with SN3D normalisation,
// up to order 3. out must have length HOAChannels(order).
func EncodeHOA(order int, azDeg, elDeg float64, out []float64) {
	phi := geom.DegToRad * azDeg
	theta := geom.DegToRad * elDeg
	sinP, cosP := math.Sincos(phi)
	sinT, cosT := math.Sincos(theta)

	out[0] = 1
	if order < 1 {
		return
	}
	out[1] = sinP * cosT
	out[2] = sinT
	out[3] = cosP * cosT
	if order < 2 {
		return
	}
	sin2P, cos2P := math.Sincos(2 * phi)
	sin2T := 2 * sinT * cosT
	sqrt3over2 := math.Sqrt(3) / 2
	out[4] = sqrt3over2 * sin2P * cosT * cosT
	out[5] = sqrt3over2 * sin2T * sinP
	out[6] = 0.5 * (3*sinT*sinT - 1)
	out[7] = sqrt3over2 * sin2T * cosP
	out[8] = sqrt3over2 * cos2P * cosT * cosT
	if order < 3 {
		return
	}
	sin3P, cos3P := math.Sincos(3 * phi)
	out[9] = math.Sqrt(5.0/8.0) * sin3P * cosT * cosT * cosT
	out[10] = math.Sqrt(15) / 2 * sin2P * sinT * cosT * cosT
	out[11] = math.Sqrt(3.0/8.0) * sinP * cosT * (5*sinT*sinT - 1)
	out[12] = 0.5 * sinT * (5*sinT*sinT - 3)
	out[13] = math.Sqrt(3.0/8.0) * cosP * cosT * (5*sinT*sinT - 1)
	out[14] = math.Sqrt(15) / 2 * cos2P * sinT * cosT * cosT
	out[15] = math.Sqrt(5.0/8.0) * cos3P * cosT * cosT * cosT
}

// AmbisonicExtent renders point and extended sources onto an ambisonic bus.
// Extended sources mix the encodings of the spread virtual-source grid,
// weighted like the loudspeaker spread panner; the mixed vector is scaled
// so its omnidirectional component stays at unity.
type AmbisonicExtent struct {
	order int
	nCh   int

	dirs    []geom.Vec3
	dirEncs [][]float64

	encPoint  []float64
	encSpread []float64
	encNear   []float64
	encFar    []float64
}

// NewAmbisonicExtent builds the ambisonic extent renderer for orders 1-3.
func NewAmbisonicExtent(order int) (*AmbisonicExtent, error) {
	if order < 1 || order > 3 {
		return nil, fmt.Errorf("unsupported ambisonic order %d", order)
	}
	n := HOAChannels(order)
	ae := &AmbisonicExtent{
		order:     order,
		nCh:       n,
		dirs:      spreadDirections(),
		encPoint:  make([]float64, n),
		encSpread: make([]float64, n),
		encNear:   make([]float64, n),
		encFar:    make([]float64, n),
	}
	ae.dirEncs = make([][]float64, len(ae.dirs))
	for i, d := range ae.dirs {
		az, el, _ := geom.CartesianToSpherical(d)
		enc := make([]float64, n)
		EncodeHOA(order, az, el, enc)
		ae.dirEncs[i] = enc
	}
	return ae, nil
}

// NumChannels returns the component count of the target bus.
func (ae *AmbisonicExtent) NumChannels() int { return ae.nCh }

// Handle writes the HOA gains for a source at the given position and polar
// extent. gains must have length NumChannels.
func (ae *AmbisonicExtent) Handle(pos adm.CartesianPosition, width, height, depth float64, gains []float64) {
	v := pos.Vec()
	distance := v.Norm()

	if depth != 0 {
		d1 := math.Max(0, distance+depth/2)
		d2 := math.Max(0, distance-depth/2)
		ae.extentEncode(v, extentModification(d1, width), extentModification(d1, height), ae.encNear)
		ae.extentEncode(v, extentModification(d2, width), extentModification(d2, height), ae.encFar)
		// HOA components are coherent, so average in amplitude.
		for i := range gains {
			gains[i] = 0.5 * (ae.encNear[i] + ae.encFar[i])
		}
		return
	}

	ae.extentEncode(v, extentModification(distance, width), extentModification(distance, height), gains)
}

func (ae *AmbisonicExtent) extentEncode(v geom.Vec3, width, height float64, out []float64) {
	az, el, _ := geom.CartesianToSpherical(v)
	p := geom.Clamp(math.Max(width, height)/minExtent, 0, 1)

	if p < 1 {
		EncodeHOA(ae.order, az, el, ae.encPoint)
	}
	if p > 0 {
		ae.spreadEncode(az, el, width, height, ae.encSpread)
	}

	switch {
	case p <= 0:
		copy(out, ae.encPoint)
	case p >= 1:
		copy(out, ae.encSpread)
	default:
		for i := range out {
			out[i] = p*ae.encSpread[i] + (1-p)*ae.encPoint[i]
		}
	}
}

func (ae *AmbisonicExtent) spreadEncode(azDeg, elDeg, width, height float64, out []float64) {
	for i := range out {
		out[i] = 0
	}
	basis := geom.LocalCoordinateSystem(azDeg, elDeg)
	for i, d := range ae.dirs {
		w := spreadWeight(d, basis, width, height)
		if w <= 0 {
			continue
		}
		enc := ae.dirEncs[i]
		for ch := 0; ch < ae.nCh; ch++ {
			out[ch] += w * enc[ch]
		}
	}
	if out[0] != 0 {
		scale := 1 / out[0]
		for i := range out {
			out[i] *= scale
		}
	}
}
