package cutaway

import (
	"go.uber.org/zap"

	"github.com/Faultbox/terrainpath/internal/logger"
	"github.com/Faultbox/terrainpath/pkg/math"
)

// Combine unions the solid outlines with the baseline floor after carving
// the carve rings out of the floor. The result is cleaned and every outline
// is oriented clockwise. Rings nested inside another outline are reported
// and dropped, which leaves the enclosed air solid.
func Combine(solids []Polygon, baseline Polygon, carves []Polygon, c Clipper, tol float64) *Set {
	floor := []Polygon{baseline}
	if len(carves) > 0 {
		floor = c.Difference(floor, carves)
	}

	rings := make([]Polygon, 0, len(solids)+len(floor))
	rings = append(rings, floor...)
	rings = append(rings, solids...)
	merged := c.Union(rings)

	cleaned := make([]Polygon, 0, len(merged))
	for _, r := range merged {
		if r = r.Clean(tol); r != nil {
			cleaned = append(cleaned, r)
		}
	}

	set := &Set{Tol: tol}
	for i, r := range cleaned {
		if depth := nesting(cleaned, i, tol); depth%2 == 1 {
			logger.Diagnostic("union_hole", "combined outline contains a hole",
				zap.Int("vertices", len(r)),
				zap.Float64("area", -r.SignedArea()),
			)
			continue
		}
		if !r.Clockwise() {
			r = r.Reversed()
		}
		set.Polys = append(set.Polys, r)
	}
	return set
}

// nesting counts the rings enclosing ring i.
func nesting(rings []Polygon, i int, tol float64) int {
	depth := 0
	for j, o := range rings {
		if j == i {
			continue
		}
		if sample, ok := samplePoint(rings[i], o, tol); ok && o.EvenOdd(sample) {
			depth++
		}
	}
	return depth
}

// samplePoint picks a point of r that does not touch o.
func samplePoint(r, o Polygon, tol float64) (math.Vec2, bool) {
	for i := range r {
		if !o.OnBoundary(r[i], tol) {
			return r[i], true
		}
		a, b := r.Edge(i)
		if mid := a.Lerp(b, 0.5); !o.OnBoundary(mid, tol) {
			return mid, true
		}
	}
	return math.Vec2{}, false
}
