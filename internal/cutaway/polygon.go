package cutaway

import (
	"github.com/Faultbox/terrainpath/pkg/math"
)

// Polygon is a closed ring of cutaway points. The closing edge is implicit.
type Polygon []math.Vec2

// Len returns the number of vertices.
func (p Polygon) Len() int {
	return len(p)
}

// Edge returns the endpoints of edge i, wrapping around.
func (p Polygon) Edge(i int) (math.Vec2, math.Vec2) {
	n := len(p)
	i = ((i % n) + n) % n
	return p[i], p[(i+1)%n]
}

// Next returns the index following i.
func (p Polygon) Next(i int) int {
	return (i + 1) % len(p)
}

// Bounds returns the bounding rectangle.
func (p Polygon) Bounds() math.Rect {
	return math.BoundsOf(p)
}

// SignedArea returns the shoelace area: positive for counter-clockwise rings.
func (p Polygon) SignedArea() float64 {
	var a float64
	for i := range p {
		j := (i + 1) % len(p)
		a += p[i].Cross(p[j])
	}
	return a / 2
}

// Clockwise reports whether the ring winds clockwise (y up).
func (p Polygon) Clockwise() bool {
	return p.SignedArea() < 0
}

// Reversed returns a copy with the opposite winding.
func (p Polygon) Reversed() Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// EvenOdd reports whether p lies inside the ring by ray crossing parity.
// The result for points on the boundary is unspecified.
func (p Polygon) EvenOdd(pt math.Vec2) bool {
	inside := false
	n := len(p)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p[i], p[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := a.X + (pt.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if pt.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// OnBoundary reports whether pt is within tol of any edge.
func (p Polygon) OnBoundary(pt math.Vec2, tol float64) bool {
	for i := range p {
		a, b := p.Edge(i)
		if math.PointOnSegment(pt, a, b, tol) {
			return true
		}
	}
	return false
}

// Contains reports whether pt lies strictly inside, farther than tol from the boundary.
func (p Polygon) Contains(pt math.Vec2, tol float64) bool {
	if len(p) < 3 || !p.Bounds().Contains(pt) {
		return false
	}
	return p.EvenOdd(pt) && !p.OnBoundary(pt, tol)
}

// Vertical reports whether the segment ab is a vertical wall within tol.
func Vertical(a, b math.Vec2, tol float64) bool {
	return math.AlmostEqual(a.X, b.X, tol)
}

// YAt evaluates segment ab at x, clamping x to the segment's range.
// Vertical segments return the higher endpoint.
func YAt(a, b math.Vec2, x float64) float64 {
	if a.X == b.X {
		if a.Y > b.Y {
			return a.Y
		}
		return b.Y
	}
	lo, hi := math.MinMax(a.X, b.X)
	x = math.Clamp(x, lo, hi)
	return math.Lerp(a.Y, b.Y, (x-a.X)/(b.X-a.X))
}

// Clean removes duplicate and collinear vertices. Rings that collapse below
// three vertices or tol area are returned empty.
func (p Polygon) Clean(tol float64) Polygon {
	out := make(Polygon, 0, len(p))
	for _, v := range p {
		if len(out) > 0 && out[len(out)-1].AlmostEqual(v, tol) {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[0].AlmostEqual(out[len(out)-1], tol) {
		out = out[:len(out)-1]
	}

	for changed := true; changed && len(out) >= 3; {
		changed = false
		for i := 0; i < len(out) && len(out) >= 3; i++ {
			prev := out[(i+len(out)-1)%len(out)]
			next := out[(i+1)%len(out)]
			if math.DistancePointSegment(out[i], prev, next) <= tol {
				out = append(out[:i], out[i+1:]...)
				changed = true
				i--
			}
		}
	}

	if len(out) < 3 {
		return nil
	}
	a := out.SignedArea()
	if a < 0 {
		a = -a
	}
	if a <= tol {
		return nil
	}
	return out
}

// Rect returns a clockwise rectangle spanning [x0, x1] x [y0, y1].
func Rect(x0, x1, y0, y1 float64) Polygon {
	return Polygon{
		{X: x0, Y: y0},
		{X: x0, Y: y1},
		{X: x1, Y: y1},
		{X: x1, Y: y0},
	}
}

// Extrude returns a clockwise polygon whose top follows the given surface
// points, left to right, and whose bottom lies flat at bottom.
func Extrude(top []math.Vec2, bottom float64) Polygon {
	if len(top) < 2 {
		return nil
	}
	out := make(Polygon, 0, len(top)+2)
	out = append(out, math.Vec2{X: top[0].X, Y: bottom})
	out = append(out, top...)
	out = append(out, math.Vec2{X: top[len(top)-1].X, Y: bottom})
	return out
}

// Cap returns a clockwise polygon spanning from the given surface points up
// to ceiling. It is the open air directly above a surface.
func Cap(surface []math.Vec2, ceiling float64) Polygon {
	if len(surface) < 2 {
		return nil
	}
	out := make(Polygon, 0, len(surface)+2)
	out = append(out, math.Vec2{X: surface[len(surface)-1].X, Y: ceiling})
	for i := len(surface) - 1; i >= 0; i-- {
		out = append(out, surface[i])
	}
	out = append(out, math.Vec2{X: surface[0].X, Y: ceiling})
	return out
}
