package terrain

import (
	"github.com/Faultbox/terrainpath/internal/cutaway"
	"github.com/Faultbox/terrainpath/pkg/math"
)

// Support is a vertical stretch of solid terrain above one 2D point.
type Support struct {
	Top    float64
	Bottom float64
}

// SupportsAt lists the solid stretches that regions and floor tiles place at
// p. Regions are solid from their surface down to the depth sentinel; tiles
// are slabs of the configured thickness.
func SupportsAt(p math.Vec2, regions []*Region, tiles []*Tile, mover Mover, settings Settings) []Support {
	settings = settings.Normalized()
	var out []Support
	for _, r := range regions {
		if e, ok := r.ElevationAt(p); ok {
			out = append(out, Support{Top: e, Bottom: settings.Engine.Depth})
		}
	}
	for _, t := range tiles {
		if t.SupportsAt(p, mover, settings) {
			out = append(out, Support{
				Top:    t.Elevation,
				Bottom: t.Elevation - settings.Engine.SlabThickness,
			})
		}
	}
	return out
}

// ElevationType classifies a world point against the regions and tiles
// covering it. The baseline floor is not considered.
func ElevationType(point Waypoint, regions []*Region, tiles []*Tile, mover Mover, settings Settings) cutaway.ElevationType {
	settings = settings.Normalized()
	tol := settings.Engine.Tolerance
	supports := SupportsAt(point.XY(), regions, tiles, mover, settings)
	if len(supports) == 0 {
		return cutaway.Outside
	}

	z := point.Elevation
	for _, s := range supports {
		if math.AlmostEqual(z, s.Top, tol) {
			return cutaway.Ground
		}
	}
	for _, s := range supports {
		if z < s.Top && z > s.Bottom-tol {
			return cutaway.Below
		}
	}
	for _, s := range supports {
		if s.Top < z {
			return cutaway.Above
		}
	}
	return cutaway.Below
}
