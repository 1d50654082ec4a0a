package region

import (
	"math"

	"github.com/spatialkit/admrender/adm"
	"github.com/spatialkit/admrender/internal/geom"
)

// QuadRegion pans over a convex quadrilateral of four loudspeakers using
// bilinear coordinates. Each bilinear axis reduces to a quadratic in one
// variable whose coefficients are precomputed from cross products of the
// quad's edges.
type QuadRegion struct {
	chans     [4]int
	vertOrder [4]int
	vertices  [4]geom.Vec3
	polyX     [3]geom.Vec3
	polyY     [3]geom.Vec3

	gainsTmp [4]float64
}

// NewQuadRegion builds a quadrilateral region from four channel indices and
// the matching loudspeaker positions in any order.
func NewQuadRegion(chans [4]int, pos [4]adm.PolarPosition) (*QuadRegion, error) {
	q := &QuadRegion{chans: chans}

	var centre geom.Vec3
	var cart [4]geom.Vec3
	for i := 0; i < 4; i++ {
		cart[i] = adm.PolarToCartesian(pos[i]).Vec()
		centre = centre.Add(cart[i].Scale(0.25))
	}

	centrePolar := adm.CartesianToPolar(adm.FromVec(centre))
	order := ngonVertexOrder(pos[:], centrePolar)
	copy(q.vertOrder[:], order)
	for i := 0; i < 4; i++ {
		q.vertices[i] = cart[q.vertOrder[i]]
	}

	q.polyX = polyXProdTerms(q.vertices)
	q.polyY = polyXProdTerms([4]geom.Vec3{q.vertices[1], q.vertices[2], q.vertices[3], q.vertices[0]})
	return q, nil
}

// polyXProdTerms returns the quadratic, linear and constant cross-product
// terms of the bilinear axis defined by the vertex ordering.
func polyXProdTerms(v [4]geom.Vec3) [3]geom.Vec3 {
	p1, p2, p3, p4 := v[0], v[1], v[2], v[3]
	return [3]geom.Vec3{
		p2.Sub(p1).Cross(p3.Sub(p4)),
		p1.Cross(p3.Sub(p4)).Add(p2.Sub(p1).Cross(p4)),
		p1.Cross(p4),
	}
}

// panningValue solves the quadratic for one bilinear axis and returns the
// root in [0, 1], or -1 when no such root exists. With a vanishing
// quadratic coefficient the linear residual is solved directly. When both
// roots lie in range the first computed root wins.
func (q *QuadRegion) panningValue(dir geom.Vec3, terms [3]geom.Vec3) float64 {
	a := terms[0].Dot(dir)
	b := terms[1].Dot(dir)
	c := terms[2].Dot(dir)

	if math.Abs(a) < gainTol {
		return -c / b
	}

	d := b*b - 4*a*c
	if d >= 0 {
		sqrtTerm := math.Sqrt(d)
		roots := [2]float64{(-b + sqrtTerm) / (2 * a), (-b - sqrtTerm) / (2 * a)}
		for _, r := range roots {
			if r >= 0 && r <= 1 {
				return r
			}
		}
	}
	return -1
}

// Channels implements Handler.
func (q *QuadRegion) Channels() []int { return q.chans[:] }

// CalculateGains implements Handler. The two bilinear parameters must land
// in [0, 1] and the blended vertex direction must not oppose the query
// direction; otherwise the direction is outside the quad and all gains stay
// zero.
func (q *QuadRegion) CalculateGains(dir geom.Vec3, gains []float64) {
	zeroGains(gains)

	x := q.panningValue(dir, q.polyX)
	y := q.panningValue(dir, q.polyY)
	if x > 1+gainTol || x < -gainTol || y > 1+gainTol || y < -gainTol {
		return
	}

	q.gainsTmp[0] = (1 - x) * (1 - y)
	q.gainsTmp[1] = x * (1 - y)
	q.gainsTmp[2] = x * y
	q.gainsTmp[3] = (1 - x) * y

	var blended geom.Vec3
	for i := 0; i < 4; i++ {
		blended = blended.Add(q.vertices[i].Scale(q.gainsTmp[i]))
	}
	if blended.Dot(dir) < 0 {
		return
	}

	norm := l2Norm(q.gainsTmp[:])
	if norm == 0 {
		return
	}
	for i := 0; i < 4; i++ {
		gains[q.vertOrder[i]] = q.gainsTmp[i] / norm
	}
}
