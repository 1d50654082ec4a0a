package render

import "math"

// OptimFilters applies per-order shelf filtering to an ambisonic signal so
// the high-frequency band can be psychoacoustically weighted (typically
// with max-rE gains). Implementations live outside this package; the gain
// pipeline only needs the contract and the weights.
type OptimFilters interface {
	// Configure prepares the filters for a signal of the given ambisonic
	// order, dimensionality, maximum block size and sample rate. It
	// reports whether the configuration is usable.
	Configure(order int, is3D bool, blockSize, sampleRate int) bool

	// Reset clears the filter state.
	Reset()

	// SetHighFrequencyGains sets the order+1 per-order gains applied to
	// the high-frequency band.
	SetHighFrequencyGains(gains []float64)

	// Process filters the interleaved-by-channel block in place.
	// samples is the number of frames to process in each channel.
	Process(block [][]float64, samples int)
}

// legendre evaluates the Legendre polynomial P_n(x) for n up to 3.
func legendre(n int, x float64) float64 {
	switch n {
	case 0:
		return 1
	case 1:
		return x
	case 2:
		return (3*x*x - 1) / 2
	default:
		return (5*x*x*x - 3*x) / 2
	}
}

// MaxReGains returns the order+1 per-order max-rE weighting gains for a 3D
// or 2D decode of the given ambisonic order.
func MaxReGains(order int, is3D bool) []float64 {
	g := make([]float64, order+1)
	if is3D {
		// Largest root of P_{order+1} approximated by the standard
		// cos(137.9°/(order+1.51)) formula.
		rE := math.Cos(137.9 * math.Pi / 180 / (float64(order) + 1.51))
		for n := 0; n <= order; n++ {
			g[n] = legendre(n, rE)
		}
	} else {
		for n := 0; n <= order; n++ {
			g[n] = math.Cos(float64(n) * math.Pi / (2*float64(order) + 2))
		}
	}
	return g
}
