package panner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatialkit/admrender/adm"
	"github.com/spatialkit/admrender/internal/geom"
)

func TestSpreadDirectionsUnit(t *testing.T) {
	dirs := spreadDirections()
	require.NotEmpty(t, dirs)
	for _, d := range dirs {
		assert.InDelta(t, 1, d.Norm(), 1e-9)
	}
}

func TestSpreadWeightInsideAndOutside(t *testing.T) {
	basis := geom.LocalCoordinateSystem(0, 0)

	// Dead centre of the stadium.
	w := spreadWeight(geom.SphericalToCartesian(0, 0, 1), basis, 60, 20)
	assert.InDelta(t, 1, w, 1e-9)

	// Along the sweep arc but within the width.
	w = spreadWeight(geom.SphericalToCartesian(15, 0, 1), basis, 60, 20)
	assert.InDelta(t, 1, w, 1e-9)

	// Far outside.
	w = spreadWeight(geom.SphericalToCartesian(180, 0, 1), basis, 60, 20)
	assert.Equal(t, 0.0, w)

	// In the fade band: past the cap edge but inside the roll-off.
	w = spreadWeight(geom.SphericalToCartesian(0, 15, 1), basis, 60, 20)
	assert.Greater(t, w, 0.0)
	assert.Less(t, w, 1.0)
}

func TestSpreadWeightSwapsAxes(t *testing.T) {
	basis := geom.LocalCoordinateSystem(0, 0)
	// Height larger than width: the stadium runs vertically.
	wUp := spreadWeight(geom.SphericalToCartesian(0, 25, 1), basis, 20, 60)
	wSide := spreadWeight(geom.SphericalToCartesian(25, 0, 1), basis, 20, 60)
	assert.InDelta(t, 1, wUp, 1e-9)
	assert.Less(t, wSide, 1.0)
}

func TestExtentModification(t *testing.T) {
	// At unit distance the extent passes through unchanged.
	assert.InDelta(t, 30, extentModification(1, 30), 1e-9)
	// Closer sources subtend a larger angle.
	assert.Greater(t, extentModification(0.5, 30), 30.0)
	// Distant sources subtend a smaller one.
	assert.Less(t, extentModification(2, 30), 30.0)
}

func TestPolarExtentZeroMatchesPointSource(t *testing.T) {
	psp, err := NewPointSource(surround50())
	require.NoError(t, err)
	pe := NewPolarExtent(psp)

	want := make([]float64, psp.NumChannels())
	got := make([]float64, psp.NumChannels())
	for _, az := range []float64{0, 15, 110, -70} {
		dir := geom.SphericalToCartesian(az, 0, 1)
		psp.Handle(dir, want)
		pe.Handle(adm.FromVec(dir), 0, 0, 0, got)
		for i := range want {
			assert.InDelta(t, want[i], got[i], 1e-9, "az %v channel %d", az, i)
		}
	}
}

func TestPolarExtentWideSourceSpreads(t *testing.T) {
	psp, err := NewPointSource(surround50())
	require.NoError(t, err)
	pe := NewPolarExtent(psp)

	gains := make([]float64, psp.NumChannels())
	pe.Handle(adm.CartesianPosition{Y: 1}, 360, 360, 0, gains)
	assert.InDelta(t, 1, gainNorm(gains), 1e-9)
	for i, g := range gains {
		assert.Greater(t, g, 0.0, "channel %d silent for a full-sphere source", i)
	}
}

func TestPolarExtentNormalised(t *testing.T) {
	psp, err := NewPointSource(surround54())
	require.NoError(t, err)
	pe := NewPolarExtent(psp)

	gains := make([]float64, psp.NumChannels())
	for _, width := range []float64{0, 2.5, 5, 30, 120, 360} {
		pe.Handle(adm.CartesianPosition{Y: 1}, width, 0, 0, gains)
		assert.InDelta(t, 1, gainNorm(gains), 1e-6, "width %v", width)
	}
}

func TestPolarExtentDepthStaysNormalised(t *testing.T) {
	psp, err := NewPointSource(surround50())
	require.NoError(t, err)
	pe := NewPolarExtent(psp)

	gains := make([]float64, psp.NumChannels())
	pe.Handle(adm.CartesianPosition{Y: 1}, 30, 30, 0.5, gains)
	// Power average of two unit-norm vectors keeps unit norm.
	assert.InDelta(t, 1, gainNorm(gains), 1e-6)
}

func TestPolarExtentCrossfade(t *testing.T) {
	psp, err := NewPointSource(surround50())
	require.NoError(t, err)
	pe := NewPolarExtent(psp)

	point := make([]float64, psp.NumChannels())
	mid := make([]float64, psp.NumChannels())
	spreadG := make([]float64, psp.NumChannels())
	pos := adm.CartesianPosition{Y: 1}
	pe.Handle(pos, 0, 0, 0, point)
	pe.Handle(pos, 2.5, 0, 0, mid)
	pe.Handle(pos, 5, 0, 0, spreadG)

	// Mid-crossfade surround gain sits between the pure renderings.
	assert.GreaterOrEqual(t, mid[0]+1e-12, math.Min(point[0], spreadG[0]))
	assert.LessOrEqual(t, mid[0]-1e-12, math.Max(point[0], spreadG[0]))
}
