package cutaway

import (
	stdmath "math"
	"sort"

	"github.com/Faultbox/terrainpath/pkg/math"
)

// Set is a collection of non-overlapping clockwise outlines along one segment.
type Set struct {
	Polys []Polygon
	Tol   float64
}

// EdgeRef identifies edge Edge of outline Poly.
type EdgeRef struct {
	Poly int
	Edge int
}

// Hit is a point on an outline edge.
type Hit struct {
	EdgeRef
	Point math.Vec2
}

// Empty reports whether the set holds no outlines.
func (s *Set) Empty() bool {
	return s == nil || len(s.Polys) == 0
}

// VertexCount returns the total number of vertices.
func (s *Set) VertexCount() int {
	n := 0
	for _, p := range s.Polys {
		n += len(p)
	}
	return n
}

// Edge returns the endpoints of the referenced edge.
func (s *Set) Edge(r EdgeRef) (math.Vec2, math.Vec2) {
	return s.Polys[r.Poly].Edge(r.Edge)
}

// Inside reports whether p is strictly inside any outline.
func (s *Set) Inside(p math.Vec2) bool {
	for _, poly := range s.Polys {
		if poly.Contains(p, s.Tol) {
			return true
		}
	}
	return false
}

// OnBoundary reports whether p touches any outline edge.
func (s *Set) OnBoundary(p math.Vec2) bool {
	for _, poly := range s.Polys {
		if poly.OnBoundary(p, s.Tol) {
			return true
		}
	}
	return false
}

// InAir reports whether p is strictly outside every outline.
func (s *Set) InAir(p math.Vec2) bool {
	return !s.Inside(p) && !s.OnBoundary(p)
}

// SpansX reports whether any outline's horizontal extent contains x.
func (s *Set) SpansX(x float64) bool {
	for _, poly := range s.Polys {
		b := poly.Bounds()
		if x >= b.Min.X-s.Tol && x <= b.Max.X+s.Tol {
			return true
		}
	}
	return false
}

// crossings returns every non-vertical edge crossing the vertical line at x.
func (s *Set) crossings(x float64) []Hit {
	var hits []Hit
	for pi, poly := range s.Polys {
		for ei := range poly {
			a, b := poly.Edge(ei)
			if Vertical(a, b, s.Tol) {
				continue
			}
			lo, hi := math.MinMax(a.X, b.X)
			if x < lo-s.Tol || x > hi+s.Tol {
				continue
			}
			hits = append(hits, Hit{
				EdgeRef: EdgeRef{Poly: pi, Edge: ei},
				Point:   math.Vec2{X: math.Clamp(x, lo, hi), Y: YAt(a, b, x)},
			})
		}
	}
	return hits
}

// SurfaceBelow returns the highest edge crossing x strictly below y.
// The hit point lies on the edge; its X is clamped to the edge's extent.
func (s *Set) SurfaceBelow(x, y float64) (Hit, bool) {
	var best Hit
	found := false
	for _, h := range s.crossings(x) {
		if h.Point.Y >= y-s.Tol {
			continue
		}
		if !found || h.Point.Y > best.Point.Y {
			best, found = h, true
		}
	}
	return best, found
}

// SurfaceAbove returns the lowest edge crossing x above y that has open air
// directly over it.
func (s *Set) SurfaceAbove(x, y float64) (Hit, bool) {
	hits := s.crossings(x)
	sort.Slice(hits, func(i, j int) bool { return hits[i].Point.Y < hits[j].Point.Y })
	probe := s.Probe()
	for _, h := range hits {
		if h.Point.Y <= y+s.Tol {
			continue
		}
		if !s.Inside(math.Vec2{X: x, Y: h.Point.Y + probe}) {
			return h, true
		}
	}
	return Hit{}, false
}

// Outgoing returns every edge that leaves p: p lies on the edge and is not its end.
func (s *Set) Outgoing(p math.Vec2) []EdgeRef {
	var refs []EdgeRef
	for pi, poly := range s.Polys {
		for ei := range poly {
			a, b := poly.Edge(ei)
			if p.AlmostEqual(b, s.Tol) {
				continue
			}
			if math.PointOnSegment(p, a, b, s.Tol) {
				refs = append(refs, EdgeRef{Poly: pi, Edge: ei})
			}
		}
	}
	return refs
}

// Breaks returns the sorted parameters along ab where the segment meets any
// outline edge or vertex, bracketed by 0 and 1.
func (s *Set) Breaks(a, b math.Vec2) []float64 {
	ts := []float64{0, 1}
	length := a.Distance(b)
	for _, poly := range s.Polys {
		for ei := range poly {
			c, d := poly.Edge(ei)
			if t, _, ok := math.SegmentIntersection(a, b, c, d); ok {
				ts = append(ts, t)
			}
			if length > 0 && math.DistancePointSegment(c, a, b) <= s.Tol {
				ts = append(ts, math.ClosestParam(c, a, b))
			}
		}
	}
	sort.Float64s(ts)

	eps := 0.0
	if length > 0 {
		eps = s.Tol / length
	}
	out := ts[:1]
	for _, t := range ts[1:] {
		if t-out[len(out)-1] > eps {
			out = append(out, t)
		}
	}
	if out[len(out)-1] < 1 {
		out[len(out)-1] = 1
	}
	return out
}

// FirstBlocked returns the parameter where ab first enters a region for which
// blocked reports true, testing the midpoint of every piece between breaks.
func (s *Set) FirstBlocked(a, b math.Vec2, blocked func(math.Vec2) bool) (float64, bool) {
	if a.AlmostEqual(b, s.Tol) {
		return 0, blocked(a)
	}
	ts := s.Breaks(a, b)
	for i := 0; i+1 < len(ts); i++ {
		mid := a.Lerp(b, (ts[i]+ts[i+1])/2)
		if blocked(mid) {
			return ts[i], true
		}
	}
	return 1, false
}

// NextCrossing returns the smallest parameter above the start of ab where
// the segment meets an outline other than skip.
func (s *Set) NextCrossing(a, b math.Vec2, skip int) (float64, bool) {
	length := a.Distance(b)
	if length <= s.Tol {
		return 0, false
	}
	minT := s.Tol / length
	best := stdmath.Inf(1)
	for pi, poly := range s.Polys {
		if pi == skip {
			continue
		}
		for ei := range poly {
			c, d := poly.Edge(ei)
			if t, _, ok := math.SegmentIntersection(a, b, c, d); ok && t > minT && t < best {
				best = t
			}
			if math.DistancePointSegment(c, a, b) <= s.Tol {
				if t := math.ClosestParam(c, a, b); t > minT && t < best {
					best = t
				}
			}
		}
	}
	if best > 1-minT {
		return 0, false
	}
	return best, true
}

// Probe returns the offset used to look just past a boundary.
func (s *Set) Probe() float64 {
	return s.Tol * 16
}
