package math

import "math"

// Orient returns twice the signed area of triangle abc.
// Positive when c lies to the left of a->b.
func Orient(a, b, c Vec2) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// SegmentIntersection intersects segments ab and cd.
// t and u are the parameters along ab and cd. Parallel segments report ok=false.
func SegmentIntersection(a, b, c, d Vec2) (t, u float64, ok bool) {
	r := b.Sub(a)
	s := d.Sub(c)
	denom := r.Cross(s)
	if denom == 0 {
		return 0, 0, false
	}
	qp := c.Sub(a)
	t = qp.Cross(s) / denom
	u = qp.Cross(r) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return t, u, false
	}
	return t, u, true
}

// ClosestParam returns the parameter of the projection of p onto ab, clamped to [0, 1].
func ClosestParam(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.LengthSq()
	if l2 == 0 {
		return 0
	}
	return Clamp(p.Sub(a).Dot(ab)/l2, 0, 1)
}

// DistancePointSegment returns the distance from p to segment ab.
func DistancePointSegment(p, a, b Vec2) float64 {
	return p.Distance(a.Lerp(b, ClosestParam(p, a, b)))
}

// PointOnSegment reports whether p is within eps of segment ab.
func PointOnSegment(p, a, b Vec2, eps float64) bool {
	return DistancePointSegment(p, a, b) <= eps
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Min, Max Vec2
}

// Contains reports whether p lies inside or on the rectangle.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y
}

// Overlaps reports whether two rectangles intersect, edges included.
func (r Rect) Overlaps(o Rect) bool {
	return r.Min.X <= o.Max.X && o.Min.X <= r.Max.X && r.Min.Y <= o.Max.Y && o.Min.Y <= r.Max.Y
}

// Union returns the smallest rectangle containing both.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Vec2{math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)},
		Max: Vec2{math.Max(r.Max.X, o.Max.X), math.Max(r.Max.Y, o.Max.Y)},
	}
}

// BoundsOf returns the bounding rectangle of points.
func BoundsOf(points []Vec2) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

// SegmentBounds returns the bounding rectangle of segment ab.
func SegmentBounds(a, b Vec2) Rect {
	return BoundsOf([]Vec2{a, b})
}

// ClipSegment clips segment ab to the rectangle (Liang-Barsky).
// Returns the entry and exit parameters along ab.
func (r Rect) ClipSegment(a, b Vec2) (t0, t1 float64, ok bool) {
	t0, t1 = 0, 1
	d := b.Sub(a)
	p := [4]float64{-d.X, d.X, -d.Y, d.Y}
	q := [4]float64{a.X - r.Min.X, r.Max.X - a.X, a.Y - r.Min.Y, r.Max.Y - a.Y}
	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > t1 {
				return 0, 0, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return 0, 0, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	return t0, t1, t0 <= t1
}
