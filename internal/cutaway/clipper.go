package cutaway

import (
	"github.com/ctessum/geom"

	"github.com/Faultbox/terrainpath/pkg/math"
)

// Clipper is the polygon boolean primitive used to combine outlines.
// Results are plain rings; nesting decides which rings are holes.
type Clipper interface {
	Union(polys []Polygon) []Polygon
	Difference(a, b []Polygon) []Polygon
}

// GeomClipper implements Clipper with github.com/ctessum/geom.
type GeomClipper struct{}

// Union merges all rings into non-overlapping outlines.
func (GeomClipper) Union(polys []Polygon) []Polygon {
	var acc geom.Polygon
	for _, p := range polys {
		if len(p) < 3 {
			continue
		}
		if acc == nil {
			acc = toGeom(p)
			continue
		}
		acc = flatten(acc.Union(toGeom(p)))
	}
	return fromGeom(acc)
}

// Difference removes every ring of b from the union of a.
func (c GeomClipper) Difference(a, b []Polygon) []Polygon {
	var acc geom.Polygon
	for _, r := range c.Union(a) {
		acc = append(acc, toPath(r))
	}
	for _, p := range b {
		if len(p) < 3 || len(acc) == 0 {
			continue
		}
		acc = flatten(acc.Difference(toGeom(p)))
	}
	return fromGeom(acc)
}

func toPath(p Polygon) geom.Path {
	path := make(geom.Path, len(p))
	for i, v := range p {
		path[i] = geom.Point{X: v.X, Y: v.Y}
	}
	return path
}

func toGeom(p Polygon) geom.Polygon {
	return geom.Polygon{toPath(p)}
}

// flatten collects the rings of a boolean result into one polygon.
func flatten(g geom.Polygonal) geom.Polygon {
	var out geom.Polygon
	for _, p := range g.Polygons() {
		out = append(out, p...)
	}
	return out
}

func fromGeom(g geom.Polygon) []Polygon {
	out := make([]Polygon, 0, len(g))
	for _, path := range g {
		ring := make(Polygon, len(path))
		for i, pt := range path {
			ring[i] = math.Vec2{X: pt.X, Y: pt.Y}
		}
		out = append(out, ring)
	}
	return out
}
