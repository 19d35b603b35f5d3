// Package cutaway projects a straight movement segment into a vertical
// cross-section and answers geometric questions about the solid terrain
// outlines found in it.
//
// Cutaway space uses X for the signed distance from the segment start and Y for
// elevation. All outlines are kept clockwise with Y pointing up, so the solid
// side of every edge is on its right and top surfaces run in the direction of
// travel.
package cutaway

import (
	"github.com/Faultbox/terrainpath/pkg/math"
)

// Transform maps world points (X, Y, Z=elevation) to and from cutaway space
// for one reference segment.
type Transform struct {
	start  math.Vec3
	end    math.Vec3
	dir    math.Vec2
	length float64
}

// NewTransform creates a transform for the segment start->end.
func NewTransform(start, end math.Vec3) Transform {
	d := end.XY().Sub(start.XY())
	return Transform{
		start:  start,
		end:    end,
		dir:    d.Normalize(),
		length: d.Length(),
	}
}

// Length returns the 2D length of the reference segment.
func (t Transform) Length() float64 {
	return t.length
}

// Start returns the segment start in world space.
func (t Transform) Start() math.Vec3 {
	return t.start
}

// End returns the segment end in world space.
func (t Transform) End() math.Vec3 {
	return t.end
}

// ToCutaway projects w. The distance is negative when w lies behind the start.
func (t Transform) ToCutaway(w math.Vec3) math.Vec2 {
	x := t.start.XY().Distance(w.XY())
	if w.XY().Distance(t.end.XY()) > t.length {
		x = -x
	}
	return math.Vec2{X: x, Y: w.Z}
}

// FromCutaway maps p back onto the reference segment.
func (t Transform) FromCutaway(p math.Vec2) math.Vec3 {
	xy := t.start.XY().Add(t.dir.Scale(p.X))
	return math.Vec3{X: xy.X, Y: xy.Y, Z: p.Y}
}

// Param returns the segment parameter of a cutaway distance.
func (t Transform) Param(x float64) float64 {
	if t.length == 0 {
		return 0
	}
	return x / t.length
}
