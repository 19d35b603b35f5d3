package world

import (
	"go.uber.org/zap"

	"github.com/Faultbox/terrainpath/internal/cutaway"
	"github.com/Faultbox/terrainpath/internal/logger"
	"github.com/Faultbox/terrainpath/pkg/math"
)

// hull routes a flyer over solid terrain or a burrower under open air. Both
// move in straight lines until blocked, then follow the blocking outline and
// cut back to the earliest point with a clear line once they have climbed
// (or, burrowing, descended) past it.
type hull struct {
	set     *cutaway.Set
	name    string
	mirror  bool
	blocked func(math.Vec2) bool
}

func fly(set *cutaway.Set, start, target math.Vec2, limit int) ([]math.Vec2, int) {
	h := &hull{set: set, name: "fly", blocked: set.Inside}
	return h.run(start, target, limit)
}

func burrow(set *cutaway.Set, start, target math.Vec2, limit int) ([]math.Vec2, int) {
	h := &hull{set: set, name: "burrow", mirror: true, blocked: set.InAir}
	return h.run(start, target, limit)
}

// escape moves p vertically out of the blocked medium: up to the surface for
// a flyer, down onto it for a burrower.
func (h *hull) escape(p math.Vec2) (math.Vec2, bool) {
	if h.mirror {
		return landing(h.set, p, p.X)
	}
	hit, ok := h.set.SurfaceAbove(p.X, p.Y)
	return hit.Point, ok
}

// climbs reports whether moving from a to b gains height for a flyer or loses
// it for a burrower.
func (h *hull) climbs(a, b math.Vec2) bool {
	if h.mirror {
		return b.Y < a.Y-h.set.Tol
	}
	return b.Y > a.Y+h.set.Tol
}

// blockedNear reports whether p or the point dx beside it is blocked. Terrain
// is cut off at both ends of the segment, so an endpoint buried in it sits on
// the cut wall rather than strictly inside.
func (h *hull) blockedNear(p math.Vec2, dx float64) bool {
	return h.blocked(p) || h.blocked(math.Vec2{X: p.X + dx, Y: p.Y})
}

func (h *hull) clear(a, b math.Vec2) bool {
	_, blocked := h.set.FirstBlocked(a, b, h.blocked)
	return !blocked
}

func (h *hull) run(start, target math.Vec2, limit int) ([]math.Vec2, int) {
	set, tol := h.set, h.set.Tol
	tr := &trail{tol: tol}
	tr.add(start)

	if h.blockedNear(target, -set.Probe()) {
		if p, ok := h.escape(target); ok {
			target = p
		}
	}
	if h.blockedNear(start, set.Probe()) {
		p, ok := h.escape(start)
		if !ok {
			logger.Diagnostic(h.name+"_no_support", "Path start cannot reach the surface",
				zap.Float64("x", start.X), zap.Float64("y", start.Y))
			return tr.points, 0
		}
		tr.add(p)
	}

	anchors := []int{len(tr.points) - 1}
	visited := make(map[cutaway.EdgeRef]bool)
	steps := 0
	for {
		cur := tr.last()
		if cur.AlmostEqual(target, tol) {
			break
		}
		// Prevent infinite loops
		if steps >= limit {
			logger.Diagnostic(h.name+"_cap", "Hull walker hit the iteration cap",
				zap.Int("limit", limit), zap.Float64("x", cur.X), zap.Float64("y", cur.Y))
			break
		}
		steps++

		t, blocked := set.FirstBlocked(cur, target, h.blocked)
		if !blocked {
			tr.add(target)
			break
		}

		next := cur.Lerp(target, t)
		if next.AlmostEqual(cur, tol) {
			ref, ok := pickEdge(set, cur, h.mirror)
			if !ok {
				logger.Diagnostic(h.name+"_no_support", "Hull walker found no outline to follow",
					zap.Float64("x", cur.X), zap.Float64("y", cur.Y))
				break
			}
			key := vertexKey(set, ref)
			if visited[key] {
				logger.Diagnostic(h.name+"_circuit", "Hull walker returned to a visited vertex",
					zap.Int("outline", key.Poly), zap.Int("vertex", key.Edge))
				break
			}
			visited[key] = true
			_, next = set.Edge(ref)
		}

		if !h.climbs(cur, next) {
			tr.add(next)
			continue
		}
		anchors = append(anchors, len(tr.points)-1)
		tr.add(next)
		anchors = h.shortcut(tr, anchors)
	}
	return tr.points, steps
}

// shortcut replaces the trail after the earliest anchor that has a clear line
// to the newest point. It returns the anchors that survive.
func (h *hull) shortcut(tr *trail, anchors []int) []int {
	v := tr.last()
	for i, a := range anchors {
		if a >= len(tr.points)-1 {
			break
		}
		if h.clear(tr.points[a], v) {
			tr.points = append(tr.points[:a+1], v)
			return anchors[:i+1]
		}
	}
	return anchors
}
