// Package world constructs elevation-aware paths over scene terrain.
package world

import (
	"go.uber.org/zap"

	"github.com/Faultbox/terrainpath/internal/cutaway"
	"github.com/Faultbox/terrainpath/internal/logger"
	"github.com/Faultbox/terrainpath/internal/metrics"
	"github.com/Faultbox/terrainpath/internal/terrain"
	"github.com/Faultbox/terrainpath/pkg/math"
)

// baselinePad extends the baseline floor past both ends of the segment.
const baselinePad = 1.0

// Mode is a movement mode.
type Mode int

const (
	Walking Mode = iota
	Flying
	Burrowing
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Flying:
		return "flying"
	case Burrowing:
		return "burrowing"
	default:
		return "walking"
	}
}

// Options control path and ground queries.
type Options struct {
	// Flying and Burrowing force a movement mode. Nil infers it from the start
	// point: flying when airborne, burrowing when buried.
	Flying    *bool
	Burrowing *bool

	Mover    terrain.Mover
	Settings terrain.Settings

	// Clipper is the polygon boolean primitive; nil uses cutaway.GeomClipper.
	Clipper cutaway.Clipper
}

// PathFinder answers path and ground queries against one scene.
type PathFinder struct {
	scene *terrain.Scene
	opts  Options
}

// NewPathFinder creates a path finder.
func NewPathFinder(scene *terrain.Scene, opts Options) *PathFinder {
	opts.Settings = opts.Settings.Normalized()
	if opts.Clipper == nil {
		opts.Clipper = cutaway.GeomClipper{}
	}
	if scene == nil {
		scene = &terrain.Scene{}
	}
	return &PathFinder{scene: scene, opts: opts}
}

// ConstructPath returns the waypoints a mover follows from start to end.
// The result always begins with start and is never empty.
func ConstructPath(scene *terrain.Scene, start, end terrain.Waypoint, opts Options) []terrain.Waypoint {
	return NewPathFinder(scene, opts).ConstructPath(start, end)
}

// ConstructPath returns the waypoints a mover follows from start to end.
// Without terrain along the segment the result is exactly [start, end].
func (pf *PathFinder) ConstructPath(start, end terrain.Waypoint) []terrain.Waypoint {
	tol := pf.opts.Settings.Engine.Tolerance
	set, tr, ok := pf.Section(start, end)
	if !ok {
		return []terrain.Waypoint{start, end}
	}

	from := math.Vec2{X: 0, Y: start.Elevation}
	to := math.Vec2{X: tr.Length(), Y: end.Elevation}
	mode := pf.mode(set, from)
	limit := iterationLimit(set, pf.opts.Settings)

	var (
		pts   []math.Vec2
		steps int
	)
	switch mode {
	case Flying:
		pts, steps = fly(set, from, to, limit)
	case Burrowing:
		pts, steps = burrow(set, from, to, limit)
	default:
		pts, steps = walk(set, from, to, limit)
	}
	pts = simplify(pts, tol)

	metrics.PathQueries.WithLabelValues(mode.String()).Inc()
	metrics.WalkerSteps.WithLabelValues(mode.String()).Observe(float64(steps))
	logger.Debug("Constructed path",
		zap.String("mode", mode.String()),
		zap.Int("outlines", len(set.Polys)),
		zap.Int("waypoints", len(pts)),
		zap.Int("steps", steps),
	)

	out := make([]terrain.Waypoint, len(pts))
	for i, p := range pts {
		out[i] = terrain.WaypointOf(tr.FromCutaway(p))
	}
	out[0] = start
	if last := len(pts) - 1; last > 0 && pts[last].AlmostEqual(to, tol) {
		out[last] = end
	}
	return out
}

// Section returns the combined terrain outlines in the vertical plane through
// start and end, with the transform mapping that plane back to the world.
// ok is false when nothing lies along the segment.
func (pf *PathFinder) Section(start, end terrain.Waypoint) (set *cutaway.Set, tr cutaway.Transform, ok bool) {
	tr = cutaway.NewTransform(start.Vec3(), end.Vec3())
	if start.XY().Distance(end.XY()) <= pf.opts.Settings.Engine.Tolerance {
		return nil, tr, false
	}
	set, ok = pf.cutaway(tr)
	return set, tr, ok
}

// cutaway builds the combined terrain outlines along tr. ok is false when no
// region or tile contributes anything.
func (pf *PathFinder) cutaway(tr cutaway.Transform) (*cutaway.Set, bool) {
	settings := pf.opts.Settings
	regions, tiles := pf.scene.Candidates(tr.Start().XY(), tr.End().XY())

	var solids, carves []cutaway.Polygon
	for _, r := range regions {
		s, c := r.Cutaway(tr, pf.scene.Baseline, settings)
		solids = append(solids, s...)
		carves = append(carves, c...)
	}
	for _, t := range tiles {
		solids = append(solids, t.Cutaway(tr, pf.opts.Mover, settings)...)
	}
	if len(solids) == 0 && len(carves) == 0 {
		return nil, false
	}

	baseline := cutaway.Rect(-baselinePad, tr.Length()+baselinePad, settings.Engine.Depth, pf.scene.Baseline)
	set := cutaway.Combine(solids, baseline, carves, pf.opts.Clipper, settings.Engine.Tolerance)
	return set, !set.Empty()
}

// mode resolves the movement mode for a path starting at from. Only unset
// flags are inferred from the start, so an explicit request always beats an
// inferred one. Flying wins when both are requested.
func (pf *PathFinder) mode(set *cutaway.Set, from math.Vec2) Mode {
	flying, burrowing := pf.opts.Flying, pf.opts.Burrowing
	switch {
	case flying != nil && *flying:
		return Flying
	case burrowing != nil && *burrowing:
		return Burrowing
	}

	kind := startKind(set, from)
	switch {
	case flying == nil && kind == cutaway.Above:
		return Flying
	case burrowing == nil && kind == cutaway.Below:
		return Burrowing
	default:
		return Walking
	}
}

// startKind classifies the first point of a path. A start on the wall where
// terrain is cut off at the segment's beginning counts as buried.
func startKind(set *cutaway.Set, p math.Vec2) cutaway.ElevationType {
	kind := set.Classify(p)
	if kind != cutaway.Ground && set.Inside(math.Vec2{X: p.X + set.Probe(), Y: p.Y}) {
		return cutaway.Below
	}
	return kind
}

// iterationLimit bounds walker steps by the size of the outline set.
func iterationLimit(set *cutaway.Set, settings terrain.Settings) int {
	limit := set.VertexCount() * settings.Engine.IterationFactor
	if limit < settings.Engine.MinIterations {
		limit = settings.Engine.MinIterations
	}
	return limit
}

// simplify drops repeated points and points lying on the straight stretch
// between their neighbours.
func simplify(pts []math.Vec2, tol float64) []math.Vec2 {
	out := make([]math.Vec2, 0, len(pts))
	for _, p := range pts {
		if n := len(out); n > 0 && out[n-1].AlmostEqual(p, tol) {
			continue
		}
		for len(out) >= 2 {
			a, b := out[len(out)-2], out[len(out)-1]
			if !math.PointOnSegment(b, a, p, tol) {
				break
			}
			out = out[:len(out)-1]
		}
		out = append(out, p)
	}
	return out
}
