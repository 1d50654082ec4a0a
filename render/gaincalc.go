package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/spatialkit/admrender/adm"
	"github.com/spatialkit/admrender/internal/geom"
	"github.com/spatialkit/admrender/internal/panner"
	"github.com/spatialkit/admrender/layout"
)

// ErrNonFinite is returned when object metadata contains NaN or infinite
// values.
var ErrNonFinite = errors.New("render: non-finite object metadata")

// GainCalculator converts one object's metadata into direct and diffuse
// gain vectors over a fixed output layout. Construct once per layout; the
// scratch buffers make it single-goroutine.
type GainCalculator struct {
	layout   layout.Layout
	lfe      []bool
	nCh      int // full channel count, LFE included
	nChNoLFE int

	hoa *panner.AmbisonicExtent

	psp    *panner.PointSource
	extent *panner.PolarExtent

	alloCapable bool
	allo        *panner.Allocentric
	alloExtent  *panner.AllocentricExtent

	screenScale *ScreenScaleHandler
	screenEdge  *ScreenEdgeLockHandler
	polarLock   *ChannelLockHandler
	alloLock    *ChannelLockHandler
	zone        *ZoneExclusionHandler

	gains    []float64
	accum    []float64
	excluded []bool
	divPos   [3]adm.CartesianPosition
	divGains [3]float64
}

// NewGainCalculator builds a calculator for the output layout. HOA layouts
// get the ambisonic path; loudspeaker layouts get the point-source and
// extent panners, plus the allocentric panners when every non-LFE channel
// has a room-relative position.
func NewGainCalculator(l layout.Layout) (*GainCalculator, error) {
	g := &GainCalculator{
		layout: l,
		lfe:    l.LFEFlags(),
		nCh:    l.NumChannels(),
	}
	stripped := l.WithoutLFE()
	g.nChNoLFE = stripped.NumChannels()

	if l.IsHOA() {
		hoa, err := panner.NewAmbisonicExtent(l.HOAOrder)
		if err != nil {
			return nil, fmt.Errorf("layout %s: %w", l.Name, err)
		}
		g.hoa = hoa
		g.gains = make([]float64, g.nChNoLFE)
		g.accum = make([]float64, g.nChNoLFE)
		return g, nil
	}

	psp, err := panner.NewPointSource(stripped.PolarPositions())
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", l.Name, err)
	}
	g.psp = psp
	g.extent = panner.NewPolarExtent(psp)

	if alloPos, ok := stripped.AllocentricPositions(); ok {
		g.alloCapable = true
		g.allo = panner.NewAllocentric(alloPos)
		g.alloExtent = panner.NewAllocentricExtent(g.allo)
		g.alloLock = NewAlloChannelLock(alloPos)
	}

	g.screenScale = NewScreenScale(l)
	g.screenEdge = NewScreenEdgeLock(l)
	g.polarLock = NewPolarChannelLock(l)
	g.zone = NewZoneExclusion(l)

	g.gains = make([]float64, g.nChNoLFE)
	g.accum = make([]float64, g.nChNoLFE)
	g.excluded = make([]bool, g.nChNoLFE)
	return g, nil
}

// NumChannels returns the full output channel count, LFE included.
func (g *GainCalculator) NumChannels() int { return g.nCh }

// Layout returns the output layout the calculator was built for.
func (g *GainCalculator) Layout() layout.Layout { return g.layout }

// CalculateGains fills direct and diffuse with per-channel gains for the
// object. Both slices must have NumChannels elements. LFE channels always
// receive zero gain.
func (g *GainCalculator) CalculateGains(md *adm.ObjectMetadata, direct, diffuse []float64) error {
	if !md.Finite() {
		return ErrNonFinite
	}
	if md.Diffuse < 0 || md.Diffuse > 1 {
		return fmt.Errorf("render: diffuse %v outside [0, 1]", md.Diffuse)
	}
	if len(direct) != g.nCh || len(diffuse) != g.nCh {
		return fmt.Errorf("render: gain buffers have %d/%d channels, layout needs %d",
			len(direct), len(diffuse), g.nCh)
	}

	if g.hoa != nil {
		g.hoaGains(md)
	} else {
		g.speakerGains(md)
	}

	// Split the spatial distribution into direct and diffuse parts,
	// re-inserting LFE channels at zero gain.
	gDirect := math.Sqrt(1 - md.Diffuse)
	gDiffuse := math.Sqrt(md.Diffuse)
	j := 0
	for i := 0; i < g.nCh; i++ {
		if g.lfe[i] {
			direct[i] = 0
			diffuse[i] = 0
			continue
		}
		direct[i] = g.gains[j] * gDirect
		diffuse[i] = g.gains[j] * gDiffuse
		j++
	}
	return nil
}

func (g *GainCalculator) hoaGains(md *adm.ObjectMetadata) {
	polar := adm.ToPolar(*md)
	pos := adm.PolarToCartesian(polar.Position.Polar())

	n := g.divergedPositionsAndGains(polar.Divergence, pos, false)
	if n == 1 {
		g.hoa.Handle(pos, polar.Width, polar.Height, polar.Depth, g.gains)
		return
	}

	for i := range g.accum {
		g.accum[i] = 0
	}
	for d := 0; d < n; d++ {
		g.hoa.Handle(g.divPos[d], polar.Width, polar.Height, polar.Depth, g.gains)
		w := g.divGains[d]
		for i, gi := range g.gains {
			g.accum[i] += w * gi * gi
		}
	}
	for i, p := range g.accum {
		g.gains[i] = math.Sqrt(p)
	}
}

func (g *GainCalculator) speakerGains(md *adm.ObjectMetadata) {
	cartMode := md.Cartesian && g.alloCapable

	var m adm.ObjectMetadata
	if cartMode {
		m = adm.ToCartesian(*md)
	} else {
		m = adm.ToPolar(*md)
	}

	var pos adm.CartesianPosition
	if m.Position.IsPolar() {
		pos = adm.PolarToCartesian(m.Position.Polar())
	} else {
		pos = m.Position.Cartesian()
	}

	if cartMode {
		g.zone.GetExcluded(m.ZoneExclusion, g.excluded)
	}

	n := g.divergedPositionsAndGains(m.Divergence, pos, cartMode)

	for i := range g.accum {
		g.accum[i] = 0
	}
	for d := 0; d < n; d++ {
		p := g.divPos[d]
		if cartMode {
			p = g.alloLock.Handle(m.ChannelLock, p, g.excluded)
			if m.ScreenRef || m.ScreenEdgeLock != (adm.ScreenEdgeLock{}) {
				// Screen remapping is defined in polar terms; round-trip
				// through the metadata conversion to apply it to room
				// coordinates.
				pp := adm.PointCartToPolar(p)
				pp = g.screenScale.Handle(pp, m.ScreenRef)
				pp = g.screenEdge.Handle(pp, m.ScreenEdgeLock)
				p = adm.PointPolarToCart(pp)
			}
			if m.Width == 0 && m.Height == 0 && m.Depth == 0 {
				g.allo.Handle(p, g.excluded, g.gains)
			} else {
				g.alloExtent.Handle(p, m.Width, m.Height, m.Depth, g.excluded, g.gains)
			}
		} else {
			p = g.polarLock.Handle(m.ChannelLock, p, nil)
			pp := adm.CartesianToPolar(p)
			pp = g.screenScale.Handle(pp, m.ScreenRef)
			pp = g.screenEdge.Handle(pp, m.ScreenEdgeLock)
			g.extent.Handle(adm.PolarToCartesian(pp), m.Width, m.Height, m.Depth, g.gains)
		}
		w := g.divGains[d]
		for i, gi := range g.gains {
			g.accum[i] += w * gi * gi
		}
	}
	for i, p := range g.accum {
		g.gains[i] = math.Sqrt(p)
	}

	if !cartMode {
		g.zone.Handle(m.ZoneExclusion, g.gains)
	}
}

// divergedPositionsAndGains fills divPos/divGains with the source positions
// and energy weights after divergence, returning how many are active (1 or
// 3). The centre keeps (1-v)/(1+v) of the energy and each side position
// v/(1+v), so the weights always sum to one.
func (g *GainCalculator) divergedPositionsAndGains(div *adm.ObjectDivergence, pos adm.CartesianPosition, cartesian bool) int {
	g.divPos[0] = pos
	g.divGains[0] = 1
	if div == nil || div.Value <= 0 {
		return 1
	}

	v := geom.Clamp(div.Value, 0, 1)
	g.divGains[0] = (1 - v) / (1 + v)
	g.divGains[1] = v / (1 + v)
	g.divGains[2] = g.divGains[1]

	if cartesian {
		// Rotate the room-relative position about the vertical axis.
		g.divPos[1] = rotateZ(pos, div.AzimuthRange)
		g.divPos[2] = rotateZ(pos, -div.AzimuthRange)
	} else {
		p := adm.CartesianToPolar(pos)
		left := p
		left.Azimuth = geom.WrapAngle(p.Azimuth + div.AzimuthRange)
		right := p
		right.Azimuth = geom.WrapAngle(p.Azimuth - div.AzimuthRange)
		g.divPos[1] = adm.PolarToCartesian(left)
		g.divPos[2] = adm.PolarToCartesian(right)
	}
	return 3
}

func rotateZ(p adm.CartesianPosition, angleDeg float64) adm.CartesianPosition {
	s, c := math.Sincos(geom.DegToRad * angleDeg)
	return adm.CartesianPosition{
		X: c*p.X - s*p.Y,
		Y: s*p.X + c*p.Y,
		Z: p.Z,
	}
}
