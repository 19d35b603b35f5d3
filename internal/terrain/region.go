package terrain

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Faultbox/terrainpath/internal/cutaway"
	"github.com/Faultbox/terrainpath/pkg/math"
)

// Shape is one simple polygon of a region footprint.
type Shape struct {
	Points []math.Vec2
	Hole   bool
}

// Region is a terrain area with an elevation behaviour.
//
// Shapes and Profile may be edited between queries; call MarkDirty afterwards
// (SetShapes and SetProfile do so) so derived data is rebuilt.
type Region struct {
	ID      string
	Name    string
	Shapes  []Shape
	Profile Profile

	version atomic.Uint64
	cache   atomic.Pointer[regionCache]
}

// regionCache holds data derived from one version of a region.
type regionCache struct {
	version  uint64
	bounds   math.Rect
	valid    bool
	axis     math.Vec2
	whole    axisRange
	perShape []axisRange
}

// NewRegion creates a region with a fresh ID.
func NewRegion(name string, shapes []Shape, p Profile) *Region {
	return &Region{
		ID:      uuid.NewString(),
		Name:    name,
		Shapes:  shapes,
		Profile: p,
	}
}

// SetShapes replaces the footprint.
func (r *Region) SetShapes(shapes []Shape) {
	r.Shapes = shapes
	r.MarkDirty()
}

// SetProfile replaces the elevation behaviour.
func (r *Region) SetProfile(p Profile) {
	r.Profile = p
	r.MarkDirty()
}

// MarkDirty invalidates derived data.
func (r *Region) MarkDirty() {
	r.version.Add(1)
}

// derived returns the cache for the current version, rebuilding it if stale.
func (r *Region) derived() *regionCache {
	v := r.version.Load()
	if c := r.cache.Load(); c != nil && c.version == v {
		return c
	}

	c := &regionCache{version: v}
	var pts []math.Vec2
	for _, s := range r.Shapes {
		if !s.Hole && len(s.Points) >= 3 {
			pts = append(pts, s.Points...)
		}
	}
	if len(pts) > 0 {
		c.bounds = math.BoundsOf(pts)
		c.valid = true
	}

	if ramp, ok := r.Profile.(Ramp); ok {
		c.axis = ramp.Axis()
		c.whole = project(pts, c.axis)
		c.perShape = make([]axisRange, len(r.Shapes))
		for i, s := range r.Shapes {
			c.perShape[i] = project(s.Points, c.axis)
		}
	}

	r.cache.Store(c)
	return c
}

func project(pts []math.Vec2, axis math.Vec2) axisRange {
	if len(pts) == 0 {
		return axisRange{}
	}
	rng := axisRange{min: pts[0].Dot(axis), max: pts[0].Dot(axis)}
	for _, p := range pts[1:] {
		s := p.Dot(axis)
		if s < rng.min {
			rng.min = s
		}
		if s > rng.max {
			rng.max = s
		}
	}
	return rng
}

// Bounds returns the bounding rectangle of the solid shapes. ok is false
// when the region has no usable shape.
func (r *Region) Bounds() (math.Rect, bool) {
	c := r.derived()
	return c.bounds, c.valid
}

// ShapeAt returns the index of the solid shape containing p, or -1 when p is
// outside the footprint or inside a hole.
func (r *Region) ShapeAt(p math.Vec2) int {
	found := -1
	for i, s := range r.Shapes {
		if len(s.Points) < 3 || !cutaway.Polygon(s.Points).EvenOdd(p) {
			continue
		}
		if s.Hole {
			return -1
		}
		if found < 0 {
			found = i
		}
	}
	return found
}

// ElevationAt returns the surface elevation at p. ok is false for inert
// regions and for points outside the footprint.
func (r *Region) ElevationAt(p math.Vec2) (float64, bool) {
	shape := r.ShapeAt(p)
	if shape < 0 {
		return 0, false
	}
	return r.surface(p, shape, r.derived())
}

// surface evaluates the profile at p inside shape.
func (r *Region) surface(p math.Vec2, shape int, c *regionCache) (float64, bool) {
	switch prof := r.Profile.(type) {
	case Plateau:
		return prof.Elevation, true
	case Ramp:
		rng := c.whole
		if prof.SplitPolygons && shape < len(c.perShape) {
			rng = c.perShape[shape]
		}
		return prof.elevation(prof.fraction(p.Dot(c.axis), rng)), true
	default:
		return 0, false
	}
}
