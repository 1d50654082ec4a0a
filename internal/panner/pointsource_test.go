package panner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatialkit/admrender/adm"
	"github.com/spatialkit/admrender/internal/geom"
)

func surround50() []adm.PolarPosition {
	return []adm.PolarPosition{
		{Azimuth: 30, Distance: 1}, {Azimuth: -30, Distance: 1}, {Azimuth: 0, Distance: 1},
		{Azimuth: 110, Distance: 1}, {Azimuth: -110, Distance: 1},
	}
}

func surround54() []adm.PolarPosition {
	return append(surround50(),
		adm.PolarPosition{Azimuth: 30, Elevation: 30, Distance: 1},
		adm.PolarPosition{Azimuth: -30, Elevation: 30, Distance: 1},
		adm.PolarPosition{Azimuth: 110, Elevation: 30, Distance: 1},
		adm.PolarPosition{Azimuth: -110, Elevation: 30, Distance: 1},
	)
}

func gainNorm(gains []float64) float64 {
	var sum float64
	for _, g := range gains {
		sum += g * g
	}
	return math.Sqrt(sum)
}

func TestNewPointSourceTooFewChannels(t *testing.T) {
	_, err := NewPointSource([]adm.PolarPosition{{Azimuth: 0, Distance: 1}})
	require.Error(t, err)
}

func TestPointSourceSpeakerDirections(t *testing.T) {
	pos := surround54()
	psp, err := NewPointSource(pos)
	require.NoError(t, err)

	gains := make([]float64, psp.NumChannels())
	for i, p := range pos {
		psp.Handle(geom.SphericalToCartesian(p.Azimuth, p.Elevation, 1), gains)
		assert.InDelta(t, 1, gains[i], 1e-9, "speaker %d should take the full gain, got %v", i, gains)
		for j, g := range gains {
			if j != i {
				assert.InDelta(t, 0, g, 1e-9, "speaker %d leaks onto %d: %v", i, j, gains)
			}
		}
	}
}

func TestPointSourceCentreFront(t *testing.T) {
	psp, err := NewPointSource(surround50())
	require.NoError(t, err)

	gains := make([]float64, psp.NumChannels())
	psp.Handle(geom.Vec3{0, 1, 0}, gains)
	assert.InDelta(t, 1, gains[2], 1e-9, "centre speaker should take a front source")
}

func TestPointSourcePairwisePan(t *testing.T) {
	psp, err := NewPointSource(surround50())
	require.NoError(t, err)

	gains := make([]float64, psp.NumChannels())
	psp.Handle(geom.SphericalToCartesian(15, 0, 1), gains)
	assert.Greater(t, gains[0], 0.0, "left speaker active")
	assert.Greater(t, gains[2], 0.0, "centre speaker active")
	assert.InDelta(t, 0, gains[1], 1e-9, "right speaker silent")
	assert.InDelta(t, 1, gainNorm(gains), 1e-9)
}

func TestPointSourceFullSphereCoverage(t *testing.T) {
	layouts := map[string][]adm.PolarPosition{
		"0+5+0": surround50(),
		"4+5+0": surround54(),
		"0+4+0": {
			{Azimuth: 45, Distance: 1}, {Azimuth: -45, Distance: 1},
			{Azimuth: 135, Distance: 1}, {Azimuth: -135, Distance: 1},
		},
	}
	for name, pos := range layouts {
		t.Run(name, func(t *testing.T) {
			psp, err := NewPointSource(pos)
			require.NoError(t, err)

			gains := make([]float64, psp.NumChannels())
			for az := -180.0; az < 180; az += 15 {
				for el := -90.0; el <= 90; el += 15 {
					psp.Handle(geom.SphericalToCartesian(az, el, 1), gains)
					norm := gainNorm(gains)
					require.InDelta(t, 1, norm, 1e-6,
						"direction (%v, %v) not covered, gains %v", az, el, gains)
					for i, g := range gains {
						require.GreaterOrEqual(t, g, -1e-9, "negative gain %d at (%v, %v)", i, az, el)
					}
				}
			}
		})
	}
}

func TestPointSourceSymmetry(t *testing.T) {
	psp, err := NewPointSource(surround50())
	require.NoError(t, err)

	left := make([]float64, psp.NumChannels())
	right := make([]float64, psp.NumChannels())
	for _, az := range []float64{10, 45, 70, 150} {
		psp.Handle(geom.SphericalToCartesian(az, 0, 1), left)
		psp.Handle(geom.SphericalToCartesian(-az, 0, 1), right)
		// Mirror: L<->R, Ls<->Rs, C stays.
		assert.InDelta(t, left[0], right[1], 1e-9, "az %v", az)
		assert.InDelta(t, left[1], right[0], 1e-9, "az %v", az)
		assert.InDelta(t, left[3], right[4], 1e-9, "az %v", az)
		assert.InDelta(t, left[4], right[3], 1e-9, "az %v", az)
		assert.InDelta(t, left[2], right[2], 1e-9, "az %v", az)
	}
}

func TestPointSourceHeightPair(t *testing.T) {
	// 2+5+0: only two height speakers; the top cap must still build, and a
	// source straight up must produce valid gains.
	pos := append(surround50(),
		adm.PolarPosition{Azimuth: 30, Elevation: 30, Distance: 1},
		adm.PolarPosition{Azimuth: -30, Elevation: 30, Distance: 1},
	)
	psp, err := NewPointSource(pos)
	require.NoError(t, err)

	gains := make([]float64, psp.NumChannels())
	psp.Handle(geom.Vec3{0, 0, 1}, gains)
	assert.InDelta(t, 1, gainNorm(gains), 1e-6, "zenith gains %v", gains)
}

func TestPointSourceStereoFrontArc(t *testing.T) {
	psp, err := NewPointSource([]adm.PolarPosition{
		{Azimuth: 30, Distance: 1}, {Azimuth: -30, Distance: 1},
	})
	require.NoError(t, err)

	gains := make([]float64, 2)
	psp.Handle(geom.SphericalToCartesian(0, 0, 1), gains)
	assert.InDelta(t, gains[0], gains[1], 1e-9, "centre phantom should be symmetric")
	assert.InDelta(t, 1, gainNorm(gains), 1e-9)

	psp.Handle(geom.SphericalToCartesian(30, 0, 1), gains)
	assert.InDelta(t, 1, gains[0], 1e-9)
	assert.InDelta(t, 0, gains[1], 1e-9)
}
