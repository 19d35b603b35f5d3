package world

import (
	stdmath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/terrainpath/internal/cutaway"
	"github.com/Faultbox/terrainpath/internal/logger"
	"github.com/Faultbox/terrainpath/internal/terrain"
	"github.com/Faultbox/terrainpath/pkg/math"
)

// NearestGroundElevation returns the elevation a mover at point settles on.
func NearestGroundElevation(scene *terrain.Scene, point terrain.Waypoint, opts Options) float64 {
	return NewPathFinder(scene, opts).NearestGroundElevation(point)
}

// NearestGroundElevation returns the elevation a mover at point settles on.
// A burrower already inside terrain stays where it is. Otherwise the point
// rises to the top of whatever contains it, repeating until no higher terrain
// contains it, or drops to the first surface below when nothing does.
func (pf *PathFinder) NearestGroundElevation(point terrain.Waypoint) float64 {
	settings := pf.opts.Settings
	tol := settings.Engine.Tolerance

	supports := pf.supportsAt(point.XY())

	z := point.Elevation
	if pf.burrowing(point) {
		if _, ok := containing(supports, z, tol); ok {
			return z
		}
	}

	for pass := 0; ; pass++ {
		if pass >= settings.Engine.GroundPasses {
			logger.Diagnostic("ground_cap", "Ground search hit the pass cap",
				zap.Int("passes", pass), zap.Float64("elevation", z))
			return z
		}
		top, ok := containing(supports, z, tol)
		if !ok {
			below, found := highestBelow(supports, z)
			if !found {
				return z
			}
			z = below
			continue
		}
		if top <= z+tol {
			return top
		}
		z = top
	}
}

// supportsAt lists the regions and tiles stacked at p. The baseline floor
// counts only where no region replaces it.
func (pf *PathFinder) supportsAt(p math.Vec2) []terrain.Support {
	var regions []*terrain.Region
	for _, r := range pf.scene.Regions {
		if b, ok := r.Bounds(); ok && b.Contains(p) {
			regions = append(regions, r)
		}
	}
	var tiles []*terrain.Tile
	for _, t := range pf.scene.Tiles {
		if t.IsFloor && t.Bounds().Contains(p) {
			tiles = append(tiles, t)
		}
	}

	supports := terrain.SupportsAt(p, regions, nil, pf.opts.Mover, pf.opts.Settings)
	if len(supports) == 0 {
		supports = append(supports, terrain.Support{Top: pf.scene.Baseline, Bottom: stdmath.Inf(-1)})
	}
	return append(supports, terrain.SupportsAt(p, nil, tiles, pf.opts.Mover, pf.opts.Settings)...)
}

// burrowing resolves the movement mode for a ground query at point.
func (pf *PathFinder) burrowing(point terrain.Waypoint) bool {
	if pf.opts.Burrowing != nil {
		return *pf.opts.Burrowing
	}
	kind := terrain.ElevationType(point, pf.scene.Regions, pf.scene.Tiles, pf.opts.Mover, pf.opts.Settings)
	if kind == cutaway.Outside {
		return point.Elevation < pf.scene.Baseline
	}
	return kind == cutaway.Below
}

// containing returns the highest top among the supports whose vertical extent
// holds z.
func containing(supports []terrain.Support, z, tol float64) (float64, bool) {
	best, found := 0.0, false
	for _, s := range supports {
		if z > s.Top+tol || z < s.Bottom-tol {
			continue
		}
		if !found || s.Top > best {
			best, found = s.Top, true
		}
	}
	return best, found
}

// highestBelow returns the highest top strictly below z.
func highestBelow(supports []terrain.Support, z float64) (float64, bool) {
	best, found := 0.0, false
	for _, s := range supports {
		if s.Top >= z {
			continue
		}
		if !found || s.Top > best {
			best, found = s.Top, true
		}
	}
	return best, found
}
