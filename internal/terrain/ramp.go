package terrain

import (
	stdmath "math"
	"sort"

	"github.com/Faultbox/terrainpath/internal/cutaway"
	"github.com/Faultbox/terrainpath/pkg/math"
)

// span is a stretch [t0, t1] of a segment inside footprint shape.
type span struct {
	t0, t1 float64
	shape  int
}

// section returns the stretches of a->b that lie inside the footprint,
// ordered by t. eps is the smallest parameter gap kept.
func (r *Region) section(a, b math.Vec2, eps float64) []span {
	ts := []float64{0, 1}
	for _, s := range r.Shapes {
		ring := cutaway.Polygon(s.Points)
		if len(ring) < 3 {
			continue
		}
		for i := range ring {
			c, d := ring.Edge(i)
			if t, _, ok := math.SegmentIntersection(a, b, c, d); ok {
				ts = append(ts, t)
			}
		}
	}
	sort.Float64s(ts)

	var out []span
	for i := 0; i+1 < len(ts); i++ {
		if ts[i+1]-ts[i] <= eps {
			continue
		}
		shape := r.ShapeAt(a.Lerp(b, (ts[i]+ts[i+1])/2))
		if shape < 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].shape == shape && ts[i]-out[n-1].t1 <= eps {
			out[n-1].t1 = ts[i+1]
			continue
		}
		out = append(out, span{t0: ts[i], t1: ts[i+1], shape: shape})
	}
	return out
}

// Cutaway returns the solid cross-section of the region along tr, one
// outline per footprint stretch, each solid from its surface down to half
// the depth sentinel. Stretches whose surface dips below the baseline also
// yield carves: the open air above the surface, to be cut out of the
// baseline floor.
func (r *Region) Cutaway(tr cutaway.Transform, baseline float64, settings Settings) (solids, carves []cutaway.Polygon) {
	switch r.Profile.(type) {
	case Plateau, Ramp:
	default:
		return nil, nil
	}
	c := r.derived()
	length := tr.Length()
	if !c.valid || length <= 0 {
		return nil, nil
	}

	settings = settings.Normalized()
	tol := settings.Engine.Tolerance
	bottom := settings.Engine.Depth / 2
	a, b := tr.Start().XY(), tr.End().XY()

	for _, sp := range r.section(a, b, tol/length) {
		top := r.topProfile(a, b, length, sp, c)
		if len(top) < 2 {
			continue
		}
		lo, hi := top[0].Y, top[0].Y
		for _, p := range top[1:] {
			lo = stdmath.Min(lo, p.Y)
			hi = stdmath.Max(hi, p.Y)
		}
		if lo < baseline-tol {
			carves = append(carves, cutaway.Cap(top, stdmath.Max(hi, baseline)+1))
		}
		if hi > baseline+tol {
			solids = append(solids, cutaway.Extrude(top, bottom))
		}
	}
	return solids, carves
}

// topProfile returns the surface of one stretch, left to right, in cutaway
// coordinates. Stepped ramps get a vertical jump at every step boundary.
func (r *Region) topProfile(a, b math.Vec2, length float64, sp span, c *regionCache) []math.Vec2 {
	switch prof := r.Profile.(type) {
	case Plateau:
		return []math.Vec2{
			{X: sp.t0 * length, Y: prof.Elevation},
			{X: sp.t1 * length, Y: prof.Elevation},
		}

	case Ramp:
		rng := c.whole
		if prof.SplitPolygons && sp.shape < len(c.perShape) {
			rng = c.perShape[sp.shape]
		}
		s0, s1 := a.Dot(c.axis), b.Dot(c.axis)
		elev := func(t float64) float64 {
			return prof.elevation(prof.fraction(math.Lerp(s0, s1, t), rng))
		}

		if prof.Steps() == 0 {
			return []math.Vec2{
				{X: sp.t0 * length, Y: elev(sp.t0)},
				{X: sp.t1 * length, Y: elev(sp.t1)},
			}
		}

		ts := []float64{sp.t0}
		if s1 != s0 && rng.span() > 0 {
			for _, f := range prof.cuts() {
				t := (rng.min + f*rng.span() - s0) / (s1 - s0)
				if t > sp.t0 && t < sp.t1 {
					ts = append(ts, t)
				}
			}
		}
		sort.Float64s(ts)
		ts = append(ts, sp.t1)

		top := make([]math.Vec2, 0, 2*len(ts))
		for i := 0; i+1 < len(ts); i++ {
			e := elev((ts[i] + ts[i+1]) / 2)
			for _, p := range []math.Vec2{{X: ts[i] * length, Y: e}, {X: ts[i+1] * length, Y: e}} {
				if n := len(top); n > 0 && top[n-1] == p {
					continue
				}
				top = append(top, p)
			}
		}
		return top

	default:
		return nil
	}
}
