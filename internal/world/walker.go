package world

import (
	stdmath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/terrainpath/internal/cutaway"
	"github.com/Faultbox/terrainpath/internal/logger"
	"github.com/Faultbox/terrainpath/pkg/math"
)

// trail accumulates the cutaway points of a path.
type trail struct {
	tol    float64
	points []math.Vec2
}

func (t *trail) add(p math.Vec2) {
	if n := len(t.points); n > 0 && t.points[n-1].AlmostEqual(p, t.tol) {
		return
	}
	t.points = append(t.points, p)
}

func (t *trail) last() math.Vec2 {
	return t.points[len(t.points)-1]
}

// heading ranks a direction for boundary following: steeper upward directions
// rank higher and any backward direction ranks below every forward one.
func heading(d math.Vec2, tol float64) float64 {
	if d.X < -tol {
		return stdmath.Atan2(d.Y, -d.X) - 2*stdmath.Pi
	}
	return stdmath.Atan2(d.Y, d.X)
}

// pickEdge returns the outgoing edge at p with the best heading. mirror flips
// the ranking vertically so downward directions win.
func pickEdge(set *cutaway.Set, p math.Vec2, mirror bool) (cutaway.EdgeRef, bool) {
	var (
		best  cutaway.EdgeRef
		score float64
		found bool
	)
	for _, ref := range set.Outgoing(p) {
		_, b := set.Edge(ref)
		d := b.Sub(p)
		if mirror {
			d.Y = -d.Y
		}
		if s := heading(d, set.Tol); !found || s > score {
			best, score, found = ref, s, true
		}
	}
	return best, found
}

// vertexKey identifies arrival at the end vertex of ref.
func vertexKey(set *cutaway.Set, ref cutaway.EdgeRef) cutaway.EdgeRef {
	return cutaway.EdgeRef{Poly: ref.Poly, Edge: set.Polys[ref.Poly].Next(ref.Edge)}
}

// landing returns where a fall from p first meets a surface below it.
func landing(set *cutaway.Set, p math.Vec2, x float64) (math.Vec2, bool) {
	h, ok := set.SurfaceBelow(x, p.Y)
	if !ok {
		return math.Vec2{}, false
	}
	a, b := set.Edge(h.EdgeRef)
	lo, hi := math.MinMax(a.X, b.X)
	lx := math.Clamp(p.X, lo, hi)
	return math.Vec2{X: lx, Y: cutaway.YAt(a, b, lx)}, true
}

// walk follows the top of the terrain from start until it reaches the end of
// the segment. Vertical drops are taken as falls onto whatever lies below;
// walls are climbed. It returns the cutaway points and the steps taken.
func walk(set *cutaway.Set, start, target math.Vec2, limit int) ([]math.Vec2, int) {
	tol := set.Tol
	tr := &trail{tol: tol}
	tr.add(start)

	switch startKind(set, start) {
	case cutaway.Above, cutaway.Outside:
		p, ok := landing(set, start, start.X)
		if !ok {
			logger.Diagnostic("walk_no_support", "Walker start has nothing below it",
				zap.Float64("x", start.X), zap.Float64("y", start.Y))
			return tr.points, 0
		}
		tr.add(p)
	case cutaway.Below:
		h, ok := set.SurfaceAbove(start.X, start.Y)
		if !ok {
			logger.Diagnostic("walk_no_support", "Walker start has no surface above it",
				zap.Float64("x", start.X), zap.Float64("y", start.Y))
			return tr.points, 0
		}
		tr.add(h.Point)
	}

	visited := make(map[cutaway.EdgeRef]bool)
	steps := 0
	for {
		cur := tr.last()
		if cur.X >= target.X-tol {
			break
		}
		// Prevent infinite loops
		if steps >= limit {
			logger.Diagnostic("walk_cap", "Walker hit the iteration cap",
				zap.Int("limit", limit), zap.Float64("x", cur.X), zap.Float64("y", cur.Y))
			break
		}
		steps++

		ref, ok := pickEdge(set, cur, false)
		if !ok {
			logger.Diagnostic("walk_no_support", "Walker lost the surface",
				zap.Float64("x", cur.X), zap.Float64("y", cur.Y))
			break
		}
		_, b := set.Edge(ref)
		d := b.Sub(cur)

		if cutaway.Vertical(cur, b, tol) && d.Y < 0 {
			p, ok := landing(set, cur, cur.X+set.Probe())
			if !ok {
				logger.Diagnostic("walk_no_support", "Walker stepped off into nothing",
					zap.Float64("x", cur.X), zap.Float64("y", cur.Y))
				break
			}
			tr.add(p)
			continue
		}

		if d.X > tol && b.X >= target.X-tol {
			tr.add(math.Vec2{X: target.X, Y: cutaway.YAt(cur, b, target.X)})
			break
		}

		if t, ok := set.NextCrossing(cur, b, ref.Poly); ok {
			tr.add(cur.Lerp(b, t))
			continue
		}
		key := vertexKey(set, ref)
		if visited[key] {
			logger.Diagnostic("walk_circuit", "Walker returned to a visited vertex",
				zap.Int("outline", key.Poly), zap.Int("vertex", key.Edge))
			break
		}
		visited[key] = true
		tr.add(b)
	}
	return tr.points, steps
}
