package region

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/spatialkit/admrender/adm"
	"github.com/spatialkit/admrender/internal/geom"
)

// Triplet pans over a spherical triangle of three loudspeakers. The inverse
// of the matrix of loudspeaker unit vectors is precomputed once, so a gain
// evaluation is a single vector-matrix product.
type Triplet struct {
	chans [3]int
	inv   [3][3]float64
}

// NewTriplet builds a triplet region from three channel indices and the
// matching loudspeaker positions. It fails if the three directions are
// coplanar with the origin, since no unique gain solution exists there.
func NewTriplet(chans [3]int, pos [3]adm.PolarPosition) (*Triplet, error) {
	data := make([]float64, 0, 9)
	for i := 0; i < 3; i++ {
		v := unitVector(pos[i])
		data = append(data, v[0], v[1], v[2])
	}
	var inv mat.Dense
	if err := inv.Inverse(mat.NewDense(3, 3, data)); err != nil {
		return nil, fmt.Errorf("degenerate triplet %v: %w", chans, err)
	}
	t := &Triplet{chans: chans}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t.inv[i][j] = inv.At(i, j)
		}
	}
	return t, nil
}

// Channels implements Handler.
func (t *Triplet) Channels() []int { return t.chans[:] }

// CalculateGains implements Handler. Any negative solved gain beyond
// tolerance means the direction lies outside the triangle and all three
// gains are zeroed; otherwise the gains are L2-normalised.
func (t *Triplet) CalculateGains(dir geom.Vec3, gains []float64) {
	zeroGains(gains)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			gains[i] += dir[j] * t.inv[j][i]
		}
	}

	for i := 0; i < 3; i++ {
		if gains[i] < -gainTol {
			zeroGains(gains)
			return
		}
	}

	norm := l2Norm(gains)
	if norm == 0 {
		return
	}
	for i := 0; i < 3; i++ {
		gains[i] /= norm
	}
}
