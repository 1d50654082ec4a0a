package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spatialkit/admrender/adm"
	"github.com/spatialkit/admrender/layout"
)

func TestScreenScaleNotReferenced(t *testing.T) {
	h := NewScreenScale(mustLayout(t, "0+5+0"))
	pos := adm.PolarPosition{Azimuth: 12, Elevation: 5, Distance: 1}
	assert.Equal(t, pos, h.Handle(pos, false))
}

func TestScreenScaleIdentityForDefaultScreen(t *testing.T) {
	// The stock layouts carry the reference screen, so scaling is a no-op.
	h := NewScreenScale(mustLayout(t, "0+5+0"))
	for _, az := range []float64{-180, -60, -29, 0, 29, 60, 180} {
		pos := adm.PolarPosition{Azimuth: az, Elevation: 0, Distance: 1}
		got := h.Handle(pos, true)
		assert.InDelta(t, az, got.Azimuth, 1e-9, "azimuth %v", az)
	}
}

func TestScreenScaleRemapsToNarrowScreen(t *testing.T) {
	l := mustLayout(t, "0+5+0")
	narrow := layout.Screen{Width: 29, AspectRatio: 1.78}
	l.Screen = &narrow
	h := NewScreenScale(l)

	// The reference screen's right edge (-29 degrees) lands on the
	// reproduction screen's right edge (-14.5 degrees).
	got := h.Handle(adm.PolarPosition{Azimuth: -29, Elevation: 0, Distance: 1}, true)
	assert.InDelta(t, -14.5, got.Azimuth, 1e-9)

	// The rear edge stays fixed.
	got = h.Handle(adm.PolarPosition{Azimuth: 180, Elevation: 0, Distance: 1}, true)
	assert.InDelta(t, 180, got.Azimuth, 1e-9)

	// Positions off screen move proportionally, not onto the screen.
	got = h.Handle(adm.PolarPosition{Azimuth: -100, Elevation: 0, Distance: 1}, true)
	assert.Greater(t, got.Azimuth, -100.0)
	assert.Less(t, got.Azimuth, -14.5)
}

func TestScreenScaleElevation(t *testing.T) {
	l := mustLayout(t, "0+5+0")
	tall := layout.Screen{Width: 58, AspectRatio: 1.0}
	l.Screen = &tall
	h := NewScreenScale(l)

	refHalfH := halfHeight(29, 1.78)
	got := h.Handle(adm.PolarPosition{Azimuth: 0, Elevation: refHalfH, Distance: 1}, true)
	assert.InDelta(t, halfHeight(29, 1.0), got.Elevation, 1e-9)
}

// halfHeight is the vertical half-angle of a screen with the given
// horizontal half-angle and aspect ratio.
func halfHeight(halfWidthDeg, aspect float64) float64 {
	return 180 / math.Pi * math.Atan(math.Tan(halfWidthDeg*math.Pi/180)/aspect)
}

func TestScreenEdgeLock(t *testing.T) {
	h := NewScreenEdgeLock(mustLayout(t, "0+5+0"))
	pos := adm.PolarPosition{Azimuth: 10, Elevation: 5, Distance: 1}

	got := h.Handle(pos, adm.ScreenEdgeLock{Horizontal: EdgeLeft})
	assert.InDelta(t, 29, got.Azimuth, 1e-9)
	assert.Equal(t, 5.0, got.Elevation)

	got = h.Handle(pos, adm.ScreenEdgeLock{Horizontal: EdgeRight})
	assert.InDelta(t, -29, got.Azimuth, 1e-9)

	halfH := halfHeight(29, 1.78)
	got = h.Handle(pos, adm.ScreenEdgeLock{Vertical: EdgeTop})
	assert.InDelta(t, halfH, got.Elevation, 1e-9)
	assert.Equal(t, 10.0, got.Azimuth)

	got = h.Handle(pos, adm.ScreenEdgeLock{Vertical: EdgeBottom})
	assert.InDelta(t, -halfH, got.Elevation, 1e-9)

	// No lock requested: position unchanged.
	got = h.Handle(pos, adm.ScreenEdgeLock{})
	assert.Equal(t, pos, got)
}
