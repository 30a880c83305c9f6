package trace

import (
	"math"

	"lightpreview/internal/mathutil"
)

// Triangle is one occluder in the soup handed to the environment.
type Triangle struct {
	ID         int
	V0, V1, V2 mathutil.Vec3
	Color      mathutil.Vec3
}

func (t *Triangle) bounds() (lo, hi mathutil.Vec3) {
	lo = t.V0.Min(t.V1).Min(t.V2)
	hi = t.V0.Max(t.V1).Max(t.V2)
	return lo, hi
}

func (t *Triangle) centroid() mathutil.Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Scale(1.0 / 3.0)
}

// intersect runs Möller-Trumbore and returns the ray parameter, or +Inf on
// a miss.
func (t *Triangle) intersect(origin, dir mathutil.Vec3) float64 {
	const eps = 1e-9
	e1 := t.V1.Sub(t.V0)
	e2 := t.V2.Sub(t.V0)
	p := dir.Cross(e2)
	det := e1.Dot(p)
	if det > -eps && det < eps {
		return math.Inf(1)
	}
	inv := 1.0 / det
	s := origin.Sub(t.V0)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return math.Inf(1)
	}
	q := s.Cross(e1)
	v := dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return math.Inf(1)
	}
	d := e2.Dot(q) * inv
	if d < 0 {
		return math.Inf(1)
	}
	return d
}
