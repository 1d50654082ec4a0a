// Command gainprobe computes the direct and diffuse gain vectors for a
// single object position and prints them per channel, for spot-checking
// renderer behaviour against reference values.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/spatialkit/admrender/adm"
	"github.com/spatialkit/admrender/internal/config"
	"github.com/spatialkit/admrender/layout"
	"github.com/spatialkit/admrender/render"
)

func main() {
	configPath := flag.String("config", "", "Optional renderer config JSON")
	layoutName := flag.String("layout", "", "Output layout name (overrides config)")
	azimuth := flag.Float64("azimuth", 0, "Source azimuth in degrees")
	elevation := flag.Float64("elevation", 0, "Source elevation in degrees")
	distance := flag.Float64("distance", 1, "Source distance")
	width := flag.Float64("width", 0, "Source width in degrees")
	height := flag.Float64("height", 0, "Source height in degrees")
	depth := flag.Float64("depth", 0, "Source depth")
	diffuse := flag.Float64("diffuse", 0, "Diffuseness in [0,1]")
	flag.Parse()

	cfg := config.Empty()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = cfg.Merge(loaded)
	}
	name := cfg.GetLayout()
	if *layoutName != "" {
		name = *layoutName
	}

	l, err := layout.Get(name)
	if err != nil {
		log.Fatalf("unknown layout: %v", err)
	}
	gc, err := render.NewGainCalculator(l)
	if err != nil {
		log.Fatalf("gain calculator: %v", err)
	}

	md := adm.ObjectMetadata{
		Position: adm.PolarPos(*azimuth, *elevation, *distance),
		Width:    *width,
		Height:   *height,
		Depth:    *depth,
		Diffuse:  *diffuse,
	}
	direct := make([]float64, l.NumChannels())
	diff := make([]float64, l.NumChannels())
	if err := gc.CalculateGains(&md, direct, diff); err != nil {
		log.Fatalf("calculate gains: %v", err)
	}

	fmt.Printf("layout %s, source az %.1f el %.1f d %.2f\n", l.Name, *azimuth, *elevation, *distance)
	for i, ch := range l.ChannelNames() {
		fmt.Printf("%-8s direct %8.5f  diffuse %8.5f\n", ch, direct[i], diff[i])
	}
}
