package terrain

import (
	stdmath "math"

	"github.com/Faultbox/terrainpath/pkg/math"
)

// Profile is the elevation behaviour attached to a region or tile.
// It is one of NoProfile, Plateau, Ramp or FloorSlab.
type Profile interface {
	profile()
}

// NoProfile marks inert terrain.
type NoProfile struct{}

// Plateau is a flat surface at a single elevation.
type Plateau struct {
	Elevation float64
}

// Ramp interpolates between Floor and Plateau along Direction, in degrees,
// pointing uphill. Step > 0 quantizes the surface into discrete steps of about
// that height. SplitPolygons measures the ramp per footprint shape.
type Ramp struct {
	Floor         float64
	Plateau       float64
	Direction     float64
	Step          float64
	SplitPolygons bool
}

// FloorSlab is the thin solid surface of a floor tile.
type FloorSlab struct {
	Elevation float64
	TestHoles bool
}

func (NoProfile) profile() {}
func (Plateau) profile()   {}
func (Ramp) profile()      {}
func (FloorSlab) profile() {}

// axisRange is the extent of a footprint projected onto a ramp axis.
type axisRange struct {
	min, max float64
}

func (a axisRange) span() float64 {
	return a.max - a.min
}

// Axis returns the unit vector pointing uphill.
func (r Ramp) Axis() math.Vec2 {
	return math.FromAngle(r.Direction)
}

// Steps returns the number of elevation increments of a stepped ramp, or 0
// for a linear one.
func (r Ramp) Steps() int {
	if r.Step <= 0 {
		return 0
	}
	m := int(stdmath.Round(stdmath.Abs(r.Plateau-r.Floor) / r.Step))
	if m < 1 {
		m = 1
	}
	return m
}

// fraction returns the normalized position of s within rng, clamped to [0, 1].
func (r Ramp) fraction(s float64, rng axisRange) float64 {
	if rng.span() <= 0 {
		return 0
	}
	return math.Clamp((s-rng.min)/rng.span(), 0, 1)
}

// elevation maps a normalized axis position to the ramp surface.
func (r Ramp) elevation(f float64) float64 {
	m := r.Steps()
	if m == 0 {
		return math.Lerp(r.Floor, r.Plateau, f)
	}
	k := int(stdmath.Floor(f * float64(m+1)))
	if k > m {
		k = m
	}
	return r.Floor + float64(k)*(r.Plateau-r.Floor)/float64(m)
}

// cuts returns the normalized positions where a stepped ramp changes elevation.
func (r Ramp) cuts() []float64 {
	m := r.Steps()
	out := make([]float64, 0, m)
	for k := 1; k <= m; k++ {
		out = append(out, float64(k)/float64(m+1))
	}
	return out
}
