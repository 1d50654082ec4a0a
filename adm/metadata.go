package adm

import "github.com/spatialkit/admrender/internal/geom"

// ObjectDivergence spreads a source's energy over two additional positions
// mirrored at +/- AzimuthRange degrees around the nominal azimuth. Value is
// the fraction in [0, 1] diverted to the mirrored pair.
type ObjectDivergence struct {
	Value        float64
	AzimuthRange float64
}

// ChannelLock snaps a source to the nearest eligible loudspeaker. When
// MaxDistance is nil any distance qualifies; otherwise only loudspeakers
// closer than MaxDistance are considered.
type ChannelLock struct {
	MaxDistance *float64
}

// ExclusionZone is an axis-aligned region of loudspeakers to exclude from
// direct-gain panning. Polar selects which set of bounds applies.
type ExclusionZone struct {
	Polar bool

	// Polar bounds, degrees. The azimuth range runs anticlockwise from
	// MinAzimuth to MaxAzimuth, so {110, -110} covers the rear.
	MinAzimuth, MaxAzimuth     float64
	MinElevation, MaxElevation float64

	// Cartesian bounds.
	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// ScreenEdgeLock pins a source to a screen edge. Horizontal is "left",
// "right" or empty; Vertical is "top", "bottom" or empty.
type ScreenEdgeLock struct {
	Horizontal string
	Vertical   string
}

// ObjectMetadata is one object's panning metadata for a single render block.
// It is read-only to the gain engine.
type ObjectMetadata struct {
	Position  Position
	Cartesian bool // metadata convention flag; true selects room-relative processing

	// Extent in the active convention: width/height in degrees and depth as
	// a distance for polar metadata, x/y/z sizes for cartesian metadata.
	Width  float64
	Height float64
	Depth  float64

	// Diffuse is the fraction of the object's energy sent to the diffuse
	// output, in [0, 1].
	Diffuse float64

	Divergence    *ObjectDivergence
	ChannelLock   *ChannelLock
	ZoneExclusion []ExclusionZone

	ScreenRef      bool // apply screen scaling against the layout's screen
	ScreenEdgeLock ScreenEdgeLock
}

// Finite reports whether every numeric field of the metadata block is finite.
// Non-finite positions would silently corrupt every output channel, so the
// gain engine rejects them up front.
func (m *ObjectMetadata) Finite() bool {
	vals := []float64{m.Width, m.Height, m.Depth, m.Diffuse}
	if m.Position.IsPolar() {
		p := m.Position.Polar()
		vals = append(vals, p.Azimuth, p.Elevation, p.Distance)
	} else {
		c := m.Position.Cartesian()
		vals = append(vals, c.X, c.Y, c.Z)
	}
	if m.Divergence != nil {
		vals = append(vals, m.Divergence.Value, m.Divergence.AzimuthRange)
	}
	if m.ChannelLock != nil && m.ChannelLock.MaxDistance != nil {
		vals = append(vals, *m.ChannelLock.MaxDistance)
	}
	for _, v := range vals {
		if !geom.IsFinite(v) {
			return false
		}
	}
	return true
}
