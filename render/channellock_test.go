package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatialkit/admrender/adm"
	"github.com/spatialkit/admrender/layout"
)

func mustLayout(t *testing.T, name string) layout.Layout {
	t.Helper()
	l, err := layout.Get(name)
	require.NoError(t, err)
	return l
}

func TestChannelLockNil(t *testing.T) {
	h := NewPolarChannelLock(mustLayout(t, "0+5+0"))
	pos := adm.CartesianPosition{X: 0.1, Y: 0.9, Z: 0}
	got := h.Handle(nil, pos, nil)
	assert.Equal(t, pos, got)
}

func TestChannelLockSnapsToNearest(t *testing.T) {
	h := NewPolarChannelLock(mustLayout(t, "0+5+0"))
	// Slightly off the left speaker direction.
	src := adm.PolarToCartesian(adm.PolarPosition{Azimuth: 28, Elevation: 0, Distance: 1})
	got := h.Handle(&adm.ChannelLock{}, src, nil)
	want := adm.PolarToCartesian(adm.PolarPosition{Azimuth: 30, Elevation: 0, Distance: 1})
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
	assert.InDelta(t, want.Z, got.Z, 1e-9)
}

func TestChannelLockMaxDistance(t *testing.T) {
	h := NewPolarChannelLock(mustLayout(t, "0+5+0"))
	src := adm.PolarToCartesian(adm.PolarPosition{Azimuth: 60, Elevation: 0, Distance: 1})

	// Too tight: no speaker qualifies, position unchanged.
	tight := 0.01
	got := h.Handle(&adm.ChannelLock{MaxDistance: &tight}, src, nil)
	assert.Equal(t, src, got)

	// Loose enough to reach the left speaker at 30 degrees.
	loose := 1.0
	got = h.Handle(&adm.ChannelLock{MaxDistance: &loose}, src, nil)
	want := adm.PolarToCartesian(adm.PolarPosition{Azimuth: 30, Elevation: 0, Distance: 1})
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
}

func TestChannelLockTieAveraging(t *testing.T) {
	h := NewPolarChannelLock(mustLayout(t, "0+2+0"))
	// Dead centre between the stereo pair: both speakers are equidistant,
	// so the locked position is their average.
	src := adm.CartesianPosition{X: 0, Y: 1, Z: 0}
	got := h.Handle(&adm.ChannelLock{}, src, nil)

	l := adm.PolarToCartesian(adm.PolarPosition{Azimuth: 30, Elevation: 0, Distance: 1})
	r := adm.PolarToCartesian(adm.PolarPosition{Azimuth: -30, Elevation: 0, Distance: 1})
	assert.InDelta(t, 0.5*(l.X+r.X), got.X, 1e-9)
	assert.InDelta(t, 0.5*(l.Y+r.Y), got.Y, 1e-9)
	assert.InDelta(t, 0, got.X, 1e-9)
}

func TestChannelLockExcluded(t *testing.T) {
	h := NewPolarChannelLock(mustLayout(t, "0+5+0"))
	src := adm.PolarToCartesian(adm.PolarPosition{Azimuth: 28, Elevation: 0, Distance: 1})
	// Non-LFE order: M+030, M-030, M+000, M+110, M-110. Exclude the left
	// speaker; the lock must fall through to the centre.
	excluded := []bool{true, false, false, false, false}
	got := h.Handle(&adm.ChannelLock{}, src, excluded)
	want := adm.PolarToCartesian(adm.PolarPosition{Azimuth: 0, Elevation: 0, Distance: 1})
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
}

func TestAlloChannelLockMetric(t *testing.T) {
	positions := []adm.CartesianPosition{
		{X: -1, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0},
	}
	h := NewAlloChannelLock(positions)
	got := h.Handle(&adm.ChannelLock{}, adm.CartesianPosition{X: -0.4, Y: 0.8, Z: 0}, nil)
	assert.Equal(t, positions[0], got)

	// The allocentric metric is plain euclidean distance, not angular.
	d := AlloLockDistance(adm.CartesianPosition{X: 0, Y: 0, Z: 0}, adm.CartesianPosition{X: 3, Y: 4, Z: 0})
	assert.InDelta(t, 5, d, 1e-12)
}

func TestPolarLockDistanceIgnoresRadius(t *testing.T) {
	spk := adm.PolarToCartesian(adm.PolarPosition{Azimuth: 30, Elevation: 0, Distance: 1})
	near := adm.PolarToCartesian(adm.PolarPosition{Azimuth: 30, Elevation: 0, Distance: 0.2})
	far := adm.PolarToCartesian(adm.PolarPosition{Azimuth: 30, Elevation: 0, Distance: 5})
	assert.InDelta(t, 0, PolarLockDistance(near, spk), 1e-12)
	assert.InDelta(t, 0, PolarLockDistance(far, spk), 1e-12)
	assert.Greater(t, PolarLockDistance(
		adm.PolarToCartesian(adm.PolarPosition{Azimuth: 50, Elevation: 0, Distance: 1}), spk),
		0.0)
}
