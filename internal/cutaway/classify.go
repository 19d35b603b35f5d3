package cutaway

import (
	"github.com/Faultbox/terrainpath/pkg/math"
)

// ElevationType categorizes a point relative to the terrain surface.
type ElevationType int

const (
	// Outside means no terrain spans the point horizontally.
	Outside ElevationType = iota
	// Ground means the point rests on a walkable surface.
	Ground
	// Above means the point is in open air over a surface.
	Above
	// Below means the point is buried in terrain.
	Below
)

// String returns the canonical upper-case name.
func (t ElevationType) String() string {
	switch t {
	case Ground:
		return "GROUND"
	case Above:
		return "ABOVE"
	case Below:
		return "BELOW"
	default:
		return "OUTSIDE"
	}
}

// Classify categorizes p against the outline set.
func (s *Set) Classify(p math.Vec2) ElevationType {
	if s.Empty() {
		return Outside
	}
	for _, poly := range s.Polys {
		for ei := range poly {
			a, b := poly.Edge(ei)
			if Vertical(a, b, s.Tol) {
				continue
			}
			if math.PointOnSegment(p, a, b, s.Tol) {
				return Ground
			}
		}
	}
	if s.Inside(p) {
		return Below
	}
	if !s.SpansX(p.X) {
		return Outside
	}
	if _, ok := s.SurfaceBelow(p.X, p.Y); ok {
		return Above
	}
	return Below
}

// Classify categorizes p against polys using tolerance tol.
func Classify(p math.Vec2, polys []Polygon, tol float64) ElevationType {
	s := &Set{Polys: polys, Tol: tol}
	return s.Classify(p)
}
