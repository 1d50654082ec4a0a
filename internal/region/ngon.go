package region

import (
	"math"

	"github.com/spatialkit/admrender/adm"
	"github.com/spatialkit/admrender/internal/geom"
)

// VirtualNgon pans over a convex polygon of N loudspeakers by introducing a
// virtual loudspeaker at the polygon's centre direction and splitting the
// polygon into N triangles around it. Gain sent to the virtual centre is
// spread equally over the real channels with a 1/sqrt(N) coefficient.
type VirtualNgon struct {
	chans    []int
	nCh      int
	downmix  float64
	triplets []*Triplet

	tripletGains [3]float64
}

// NewVirtualNgon builds an N-gon region from the channel indices, their
// positions and the position of the virtual centre loudspeaker.
func NewVirtualNgon(chans []int, pos []adm.PolarPosition, centre adm.PolarPosition) (*VirtualNgon, error) {
	n := len(chans)
	ngon := &VirtualNgon{
		chans:   append([]int(nil), chans...),
		nCh:     n,
		downmix: 1 / math.Sqrt(float64(n)),
	}

	order := ngonVertexOrder(pos, centre)
	for i := 0; i < n; i++ {
		spk1 := order[i]
		spk2 := order[(i+1)%n]
		// Triplet channel slots are local: the two real vertices keep
		// their polygon index and slot n stands for the virtual centre.
		t, err := NewTriplet(
			[3]int{spk1, spk2, n},
			[3]adm.PolarPosition{pos[spk1], pos[spk2], centre},
		)
		if err != nil {
			return nil, err
		}
		ngon.triplets = append(ngon.triplets, t)
	}
	return ngon, nil
}

// Channels implements Handler.
func (v *VirtualNgon) Channels() []int { return v.chans }

// CalculateGains implements Handler. The constituent triplets are tried in
// vertex order; the first one yielding non-negative gains with a positive
// sum wins. If none does, the direction is outside the polygon and all
// gains stay zero.
func (v *VirtualNgon) CalculateGains(dir geom.Vec3, gains []float64) {
	zeroGains(gains)

	var hit *Triplet
	for _, t := range v.triplets {
		t.CalculateGains(dir, v.tripletGains[:])
		sum := v.tripletGains[0] + v.tripletGains[1] + v.tripletGains[2]
		if v.tripletGains[0] > -gainTol && v.tripletGains[1] > -gainTol &&
			v.tripletGains[2] > -gainTol && sum > gainTol {
			hit = t
			break
		}
	}
	if hit == nil {
		return
	}

	inds := hit.Channels()
	for i := 0; i < 2; i++ {
		gains[inds[i]] += v.tripletGains[i]
	}
	// The virtual centre's gain is spread equally over all real channels.
	for i := 0; i < v.nCh; i++ {
		gains[i] += v.downmix * v.tripletGains[2]
	}

	norm := l2Norm(gains)
	if norm == 0 {
		return
	}
	for i := range gains {
		gains[i] /= norm
	}
}
