// Command gainsweep sweeps an object position across azimuth (and
// optionally elevation) and plots the resulting per-channel direct gains,
// for checking panning curves against expected loudspeaker crossfades.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/spatialkit/admrender/adm"
	"github.com/spatialkit/admrender/layout"
	"github.com/spatialkit/admrender/render"
)

func main() {
	layoutName := flag.String("layout", "0+5+0", "Output layout name")
	elevation := flag.Float64("elevation", 0, "Source elevation in degrees")
	width := flag.Float64("width", 0, "Source width in degrees")
	height := flag.Float64("height", 0, "Source height in degrees")
	step := flag.Float64("step", 1, "Azimuth step in degrees")
	out := flag.String("out", "gains.png", "Output PNG path")
	csv := flag.Bool("csv", false, "Write CSV to stdout instead of a plot")
	flag.Parse()

	l, err := layout.Get(*layoutName)
	if err != nil {
		log.Fatalf("unknown layout: %v", err)
	}
	gc, err := render.NewGainCalculator(l)
	if err != nil {
		log.Fatalf("gain calculator: %v", err)
	}

	names := l.ChannelNames()
	nCh := l.NumChannels()
	direct := make([]float64, nCh)
	diffuse := make([]float64, nCh)
	curves := make([]plotter.XYs, nCh)

	if *csv {
		fmt.Print("azimuth")
		for _, n := range names {
			fmt.Printf(",%s", n)
		}
		fmt.Println()
	}

	for az := -180.0; az <= 180.0; az += *step {
		md := adm.ObjectMetadata{
			Position: adm.PolarPos(az, *elevation, 1),
			Width:    *width,
			Height:   *height,
		}
		if err := gc.CalculateGains(&md, direct, diffuse); err != nil {
			log.Fatalf("gains at azimuth %.1f: %v", az, err)
		}
		if *csv {
			fmt.Printf("%.2f", az)
			for _, g := range direct {
				fmt.Printf(",%.6f", g)
			}
			fmt.Println()
			continue
		}
		for ch := 0; ch < nCh; ch++ {
			curves[ch] = append(curves[ch], plotter.XY{X: az, Y: direct[ch]})
		}
	}
	if *csv {
		return
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - Direct Gains (el %.0f°, extent %.0fx%.0f°)",
		l.Name, *elevation, *width, *height)
	p.X.Label.Text = "Azimuth (deg)"
	p.Y.Label.Text = "Gain"

	colors := generateColors(nCh)
	for ch := 0; ch < nCh; ch++ {
		line, err := plotter.NewLine(curves[ch])
		if err != nil {
			log.Fatalf("plot line for %s: %v", names[ch], err)
		}
		line.Color = colors[ch]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(names[ch], line)
	}

	if err := p.Save(14*vg.Inch, 6*vg.Inch, *out); err != nil {
		log.Fatalf("save plot: %v", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", *out)
}

func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}
