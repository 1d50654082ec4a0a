package layout

import (
	"fmt"

	"github.com/spatialkit/admrender/adm"
)

// speaker builds a channel from an ITU-style name. The layer letter fixes
// the nominal elevation: M=0, U=+30, B=-30, T=+90.
func speaker(name string, azimuth float64) Channel {
	var el float64
	switch name[0] {
	case 'U':
		el = 30
	case 'B':
		el = -30
	case 'T':
		el = 90
	}
	return Channel{
		Name:     name,
		Position: adm.PolarPosition{Azimuth: azimuth, Elevation: el, Distance: 1},
	}
}

func lfe(name string) Channel {
	return Channel{
		Name:     name,
		Position: adm.PolarPosition{Azimuth: 0, Elevation: -30, Distance: 1},
		IsLFE:    true,
	}
}

// stockLayouts holds the supported loudspeaker layouts keyed by their
// BS.2051 system name. Channel order follows the usual delivery order, LFE
// included where the system carries one.
var stockLayouts = map[string]Layout{
	"0+2+0": {
		Name: "0+2+0",
		Channels: []Channel{
			speaker("M+030", 30), speaker("M-030", -30),
		},
	},
	"0+4+0": {
		Name: "0+4+0",
		Channels: []Channel{
			speaker("M+045", 45), speaker("M-045", -45),
			speaker("M+135", 135), speaker("M-135", -135),
		},
	},
	"0+5+0": {
		Name: "0+5+0",
		Channels: []Channel{
			speaker("M+030", 30), speaker("M-030", -30), speaker("M+000", 0),
			lfe("LFE1"),
			speaker("M+110", 110), speaker("M-110", -110),
		},
	},
	"2+5+0": {
		Name: "2+5+0",
		Channels: []Channel{
			speaker("M+030", 30), speaker("M-030", -30), speaker("M+000", 0),
			lfe("LFE1"),
			speaker("M+110", 110), speaker("M-110", -110),
			speaker("U+030", 30), speaker("U-030", -30),
		},
	},
	"4+5+0": {
		Name: "4+5+0",
		Channels: []Channel{
			speaker("M+030", 30), speaker("M-030", -30), speaker("M+000", 0),
			lfe("LFE1"),
			speaker("M+110", 110), speaker("M-110", -110),
			speaker("U+030", 30), speaker("U-030", -30),
			speaker("U+110", 110), speaker("U-110", -110),
		},
	},
	"0+7+0": {
		Name: "0+7+0",
		Channels: []Channel{
			speaker("M+030", 30), speaker("M-030", -30), speaker("M+000", 0),
			lfe("LFE1"),
			speaker("M+090", 90), speaker("M-090", -90),
			speaker("M+135", 135), speaker("M-135", -135),
		},
	},
	"4+7+0": {
		Name: "4+7+0",
		Channels: []Channel{
			speaker("M+030", 30), speaker("M-030", -30), speaker("M+000", 0),
			lfe("LFE1"),
			speaker("M+090", 90), speaker("M-090", -90),
			speaker("M+135", 135), speaker("M-135", -135),
			speaker("U+045", 45), speaker("U-045", -45),
			speaker("U+135", 135), speaker("U-135", -135),
		},
	},
}

// Get returns a copy of the named stock layout with the default screen
// attached. HOA buses are named "1OA", "2OA" or "3OA".
func Get(name string) (Layout, error) {
	switch name {
	case "1OA", "2OA", "3OA":
		return HOA(int(name[0] - '0'))
	}
	l, ok := stockLayouts[name]
	if !ok {
		return Layout{}, fmt.Errorf("unknown layout %q", name)
	}
	screen := DefaultScreen
	out := Layout{Name: l.Name, Screen: &screen}
	out.Channels = append(out.Channels, l.Channels...)
	return out, nil
}

// Names returns the stock loudspeaker layout names.
func Names() []string {
	names := make([]string, 0, len(stockLayouts))
	for name := range stockLayouts {
		names = append(names, name)
	}
	return names
}

// HOA returns an ambisonic bus layout of the given order with (order+1)^2
// ACN-ordered components.
func HOA(order int) (Layout, error) {
	if order < 1 || order > 3 {
		return Layout{}, fmt.Errorf("unsupported ambisonic order %d", order)
	}
	n := (order + 1) * (order + 1)
	l := Layout{Name: fmt.Sprintf("%dOA", order), HOAOrder: order}
	for acn := 0; acn < n; acn++ {
		l.Channels = append(l.Channels, Channel{Name: fmt.Sprintf("ACN%d", acn)})
	}
	return l, nil
}
