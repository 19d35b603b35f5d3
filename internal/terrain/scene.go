// Package terrain holds the terrain regions and floor tiles of a scene and
// produces their solid cross-sections along a movement segment.
package terrain

import (
	"github.com/Faultbox/terrainpath/internal/config"
	"github.com/Faultbox/terrainpath/pkg/math"
)

// Waypoint is a world position with elevation.
type Waypoint struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Elevation float64 `yaml:"elevation"`
}

// Vec3 returns the waypoint as a vector with Z holding the elevation.
func (w Waypoint) Vec3() math.Vec3 {
	return math.Vec3{X: w.X, Y: w.Y, Z: w.Elevation}
}

// XY returns the 2D position.
func (w Waypoint) XY() math.Vec2 {
	return math.Vec2{X: w.X, Y: w.Y}
}

// WaypointOf converts a vector with Z holding the elevation.
func WaypointOf(v math.Vec3) Waypoint {
	return Waypoint{X: v.X, Y: v.Y, Elevation: v.Z}
}

// Mover is the 2D footprint of a moving object in world units.
type Mover struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Settings carries the engine tunables used when profiling terrain.
type Settings struct {
	Engine config.EngineConfig
	Holes  config.HoleConfig
}

// DefaultSettings returns the default tunables.
func DefaultSettings() Settings {
	return Settings{Engine: config.DefaultEngine(), Holes: config.DefaultHoles()}
}

// Normalized replaces unset tunables with defaults.
func (s Settings) Normalized() Settings {
	return Settings{Engine: s.Engine.Normalized(), Holes: s.Holes.Normalized()}
}

// Scene is the terrain a query runs against.
type Scene struct {
	Baseline float64
	Regions  []*Region
	Tiles    []*Tile
}

// Candidates returns the regions and floor tiles whose bounds touch the
// segment a->b.
func (s *Scene) Candidates(a, b math.Vec2) ([]*Region, []*Tile) {
	seg := math.SegmentBounds(a, b)

	var regions []*Region
	for _, r := range s.Regions {
		if _, inert := r.Profile.(NoProfile); inert || r.Profile == nil {
			continue
		}
		if rb, ok := r.Bounds(); ok && rb.Overlaps(seg) {
			regions = append(regions, r)
		}
	}

	var tiles []*Tile
	for _, t := range s.Tiles {
		if t.IsFloor && t.Bounds().Overlaps(seg) {
			tiles = append(tiles, t)
		}
	}
	return regions, tiles
}
