package panner

import (
	"math"
	"sort"

	"github.com/spatialkit/admrender/adm"
	"github.com/spatialkit/admrender/internal/geom"
)

// coordTol merges room coordinates into shared planes, rows and columns.
const coordTol = 1e-6

// alloMinExtent is the room-relative size below which an allocentric source
// is rendered as a pure point; up to alloMinExtent the point and spread
// renderings are crossfaded.
const alloMinExtent = 0.2

// alloExtentSamples is the per-axis sample count of the allocentric extent
// grid.
const alloExtentSamples = 5

// Allocentric pans a room-relative position over loudspeakers placed at
// room coordinates in [-1, 1] per axis. The room is panned hierarchically:
// constant-power between vertical planes, then between rows within a
// plane, then between speakers within a row, so the per-speaker gain is a
// product of three one-dimensional gains.
type Allocentric struct {
	positions []adm.CartesianPosition
}

// NewAllocentric builds the panner from the room coordinates of the
// LFE-stripped layout channels, in declaration order.
func NewAllocentric(positions []adm.CartesianPosition) *Allocentric {
	return &Allocentric{positions: append([]adm.CartesianPosition(nil), positions...)}
}

// NumChannels returns the channel count the panner produces gains for.
func (a *Allocentric) NumChannels() int { return len(a.positions) }

// Handle writes the panning gains for pos into gains, which must have
// length NumChannels. Channels flagged in excluded receive zero gain and do
// not attract energy; excluded may be nil. If every channel is excluded all
// gains stay zero.
func (a *Allocentric) Handle(pos adm.CartesianPosition, excluded []bool, gains []float64) {
	for i := range gains {
		gains[i] = 0
	}

	var active []int
	for i := range a.positions {
		if excluded == nil || i >= len(excluded) || !excluded[i] {
			active = append(active, i)
		}
	}
	if len(active) == 0 {
		return
	}

	zs := uniqueCoords(active, func(i int) float64 { return a.positions[i].Z })
	gz := panOneD(zs, pos.Z)
	for zi, z := range zs {
		var plane []int
		for _, i := range active {
			if math.Abs(a.positions[i].Z-z) < coordTol {
				plane = append(plane, i)
			}
		}
		ys := uniqueCoords(plane, func(i int) float64 { return a.positions[i].Y })
		gy := panOneD(ys, pos.Y)
		for yi, y := range ys {
			var row []int
			for _, i := range plane {
				if math.Abs(a.positions[i].Y-y) < coordTol {
					row = append(row, i)
				}
			}
			sort.Slice(row, func(p, q int) bool { return a.positions[row[p]].X < a.positions[row[q]].X })
			xs := make([]float64, len(row))
			for xi, i := range row {
				xs[xi] = a.positions[i].X
			}
			gx := panOneD(xs, pos.X)
			for xi, i := range row {
				gains[i] = gz[zi] * gy[yi] * gx[xi]
			}
		}
	}
}

// uniqueCoords returns the sorted distinct values of coord over the given
// channel indices.
func uniqueCoords(indices []int, coord func(int) float64) []float64 {
	var out []float64
	for _, i := range indices {
		v := coord(i)
		found := false
		for _, u := range out {
			if math.Abs(u-v) < coordTol {
				found = true
				break
			}
		}
		if !found {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

// panOneD pans position p over the sorted coordinates with a constant-power
// pairwise law. Outside the coordinate range the nearest end takes all the
// gain.
func panOneD(coords []float64, p float64) []float64 {
	g := make([]float64, len(coords))
	n := len(coords)
	switch {
	case n == 0:
		return g
	case p <= coords[0]:
		g[0] = 1
		return g
	case p >= coords[n-1]:
		g[n-1] = 1
		return g
	}
	for i := 0; i < n-1; i++ {
		if p <= coords[i+1] {
			w := (p - coords[i]) / (coords[i+1] - coords[i])
			g[i] = math.Cos(w * math.Pi / 2)
			g[i+1] = math.Sin(w * math.Pi / 2)
			return g
		}
	}
	g[n-1] = 1
	return g
}

// AllocentricExtent renders room-relative extended sources by sampling the
// extent box around the source position and power-summing the point gains
// of every sample, crossfaded against the plain point rendering for small
// extents.
type AllocentricExtent struct {
	allo *Allocentric

	gainsPoint  []float64
	gainsSample []float64
	power       []float64
}

// NewAllocentricExtent builds the extent renderer on top of an allocentric
// panner.
func NewAllocentricExtent(allo *Allocentric) *AllocentricExtent {
	n := allo.NumChannels()
	return &AllocentricExtent{
		allo:        allo,
		gainsPoint:  make([]float64, n),
		gainsSample: make([]float64, n),
		power:       make([]float64, n),
	}
}

// Handle writes the gains for a source at pos with room-relative extent
// sizes (sx, sy, sz). gains must have the panner's channel count.
func (ax *AllocentricExtent) Handle(pos adm.CartesianPosition, sx, sy, sz float64, excluded []bool, gains []float64) {
	maxSize := math.Max(sx, math.Max(sy, sz))
	p := geom.Clamp(maxSize/alloMinExtent, 0, 1)

	ax.allo.Handle(pos, excluded, ax.gainsPoint)
	if p <= 0 {
		copy(gains, ax.gainsPoint)
		return
	}

	xs := sampleAxis(pos.X, sx)
	ys := sampleAxis(pos.Y, sy)
	zs := sampleAxis(pos.Z, sz)
	for i := range ax.power {
		ax.power[i] = 0
	}
	for _, x := range xs {
		for _, y := range ys {
			for _, z := range zs {
				ax.allo.Handle(adm.CartesianPosition{X: x, Y: y, Z: z}, excluded, ax.gainsSample)
				for i, g := range ax.gainsSample {
					ax.power[i] += g * g
				}
			}
		}
	}
	nSamples := float64(len(xs) * len(ys) * len(zs))
	for i := range gains {
		spread := math.Sqrt(ax.power[i] / nSamples)
		gains[i] = math.Sqrt(p*spread*spread + (1-p)*ax.gainsPoint[i]*ax.gainsPoint[i])
	}
	normalizeL2(gains)
}

// sampleAxis returns sample coordinates across an extent of size s centred
// on c, clamped to the room.
func sampleAxis(c, s float64) []float64 {
	if s < coordTol {
		return []float64{geom.Clamp(c, -1, 1)}
	}
	out := make([]float64, alloExtentSamples)
	for i := 0; i < alloExtentSamples; i++ {
		f := float64(i)/(alloExtentSamples-1) - 0.5
		out[i] = geom.Clamp(c+f*s, -1, 1)
	}
	return out
}
