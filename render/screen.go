package render

import (
	"math"

	"github.com/spatialkit/admrender/adm"
	"github.com/spatialkit/admrender/internal/geom"
	"github.com/spatialkit/admrender/layout"
)

// Screen edge-lock positions accepted in ObjectMetadata.ScreenEdgeLock.
const (
	EdgeLeft   = "left"
	EdgeRight  = "right"
	EdgeTop    = "top"
	EdgeBottom = "bottom"
)

// screenEdges holds a screen's angular extent as seen from the listening
// position.
type screenEdges struct {
	leftAz, rightAz float64
	topEl, botEl    float64
}

func edgesOf(s layout.Screen) screenEdges {
	halfW := s.Width / 2
	// Vertical half-angle from the horizontal half-angle and the aspect
	// ratio, both measured at the screen plane.
	halfH := geom.RadToDeg * math.Atan(math.Tan(geom.DegToRad*halfW)/s.AspectRatio)
	return screenEdges{
		leftAz:  s.CentreAzimuth + halfW,
		rightAz: s.CentreAzimuth - halfW,
		topEl:   s.CentreElevation + halfH,
		botEl:   s.CentreElevation - halfH,
	}
}

// piecewise maps x through the monotonic breakpoint pairs (xs, ys),
// clamping outside the first and last breakpoints.
func piecewise(x float64, xs, ys []float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	for i := 1; i < len(xs); i++ {
		if x <= xs[i] {
			t := (x - xs[i-1]) / (xs[i] - xs[i-1])
			return ys[i-1] + t*(ys[i]-ys[i-1])
		}
	}
	return ys[len(ys)-1]
}

// ScreenScaleHandler warps object positions so that content authored
// against the reference screen lands on the reproduction screen, leaving
// the rear hemisphere edges fixed.
type ScreenScaleHandler struct {
	ref, rep screenEdges
}

func screenOf(l layout.Layout) layout.Screen {
	if l.Screen != nil {
		return *l.Screen
	}
	return layout.DefaultScreen
}

// NewScreenScale builds a handler mapping the reference screen onto the
// layout's reproduction screen.
func NewScreenScale(l layout.Layout) *ScreenScaleHandler {
	return &ScreenScaleHandler{
		ref: edgesOf(layout.DefaultScreen),
		rep: edgesOf(screenOf(l)),
	}
}

// Handle remaps pos when the object is screen-referenced; otherwise the
// position passes through unchanged.
func (h *ScreenScaleHandler) Handle(pos adm.PolarPosition, screenRef bool) adm.PolarPosition {
	if !screenRef {
		return pos
	}
	az := geom.WrapAngle(pos.Azimuth)
	out := adm.PolarPosition{
		Azimuth: piecewise(az,
			[]float64{-180, h.ref.rightAz, h.ref.leftAz, 180},
			[]float64{-180, h.rep.rightAz, h.rep.leftAz, 180}),
		Elevation: piecewise(pos.Elevation,
			[]float64{-90, h.ref.botEl, h.ref.topEl, 90},
			[]float64{-90, h.rep.botEl, h.rep.topEl, 90}),
		Distance: pos.Distance,
	}
	return out
}

// ScreenEdgeLockHandler snaps an object's azimuth and/or elevation to an
// edge of the reproduction screen when the metadata requests it.
type ScreenEdgeLockHandler struct {
	rep screenEdges
}

func NewScreenEdgeLock(l layout.Layout) *ScreenEdgeLockHandler {
	return &ScreenEdgeLockHandler{rep: edgesOf(screenOf(l))}
}

// Handle applies the requested edge locks to pos. Unrecognised edge names
// are ignored.
func (h *ScreenEdgeLockHandler) Handle(pos adm.PolarPosition, lock adm.ScreenEdgeLock) adm.PolarPosition {
	switch lock.Horizontal {
	case EdgeLeft:
		pos.Azimuth = h.rep.leftAz
	case EdgeRight:
		pos.Azimuth = h.rep.rightAz
	}
	switch lock.Vertical {
	case EdgeTop:
		pos.Elevation = h.rep.topEl
	case EdgeBottom:
		pos.Elevation = h.rep.botEl
	}
	return pos
}
