package world

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/terrainpath/internal/cutaway"
	"github.com/Faultbox/terrainpath/internal/metrics"
	"github.com/Faultbox/terrainpath/internal/terrain"
	"github.com/Faultbox/terrainpath/pkg/math"
)

const testTol = 1e-6

func square(x0, y0, x1, y1 float64) []math.Vec2 {
	return []math.Vec2{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func wp(x, y, elevation float64) terrain.Waypoint {
	return terrain.Waypoint{X: x, Y: y, Elevation: elevation}
}

func boolPtr(v bool) *bool {
	return &v
}

// plateauScene has a flat baseline at 0 and a 10x10 plateau at 5 spanning
// x 20..30 across the y=0 line.
func plateauScene() *terrain.Scene {
	return &terrain.Scene{
		Regions: []*terrain.Region{
			terrain.NewRegion("plateau", []terrain.Shape{{Points: square(20, -5, 30, 5)}}, terrain.Plateau{Elevation: 5}),
		},
	}
}

// pitScene has a 5 deep pit spanning x 40..50.
func pitScene() *terrain.Scene {
	return &terrain.Scene{
		Regions: []*terrain.Region{
			terrain.NewRegion("pit", []terrain.Shape{{Points: square(40, -5, 50, 5)}}, terrain.Plateau{Elevation: -5}),
		},
	}
}

// slabScene has a floor tile at 5 spanning x 40..60 over an empty baseline.
func slabScene() *terrain.Scene {
	return &terrain.Scene{
		Tiles: []*terrain.Tile{terrain.NewTile(40, -10, 20, 20, 5)},
	}
}

func assertPath(t *testing.T, want, got []terrain.Waypoint) {
	t.Helper()
	require.Len(t, got, len(want), "path %v", got)
	for i := range want {
		assert.InDelta(t, want[i].X, got[i].X, 1e-6, "waypoint %d x", i)
		assert.InDelta(t, want[i].Y, got[i].Y, 1e-6, "waypoint %d y", i)
		assert.InDelta(t, want[i].Elevation, got[i].Elevation, 1e-6, "waypoint %d elevation", i)
	}
}

func TestConstructPath_NoTerrain(t *testing.T) {
	start, end := wp(0, 0, 3), wp(100, 0, 7)
	path := ConstructPath(&terrain.Scene{}, start, end, Options{})
	assert.Equal(t, []terrain.Waypoint{start, end}, path)

	path = ConstructPath(nil, start, end, Options{})
	assert.Equal(t, []terrain.Waypoint{start, end}, path)
}

func TestConstructPath_Degenerate(t *testing.T) {
	start, end := wp(5, 5, 0), wp(5, 5, 10)
	path := ConstructPath(plateauScene(), start, end, Options{})
	assert.Equal(t, []terrain.Waypoint{start, end}, path)
}

func TestConstructPath_Walking_Plateau(t *testing.T) {
	start, end := wp(0, 0, 0), wp(100, 0, 0)
	path := ConstructPath(plateauScene(), start, end, Options{})

	assertPath(t, []terrain.Waypoint{
		wp(0, 0, 0), wp(20, 0, 0), wp(20, 0, 5), wp(30, 0, 5), wp(30, 0, 0), wp(100, 0, 0),
	}, path)
	assert.Equal(t, start, path[0])
	assert.Equal(t, end, path[len(path)-1])
}

func TestConstructPath_Walking_Reversed(t *testing.T) {
	path := ConstructPath(plateauScene(), wp(100, 0, 0), wp(0, 0, 0), Options{})
	assertPath(t, []terrain.Waypoint{
		wp(100, 0, 0), wp(30, 0, 0), wp(30, 0, 5), wp(20, 0, 5), wp(20, 0, 0), wp(0, 0, 0),
	}, path)
}

func TestConstructPath_Walking_Pit(t *testing.T) {
	path := ConstructPath(pitScene(), wp(0, 0, 0), wp(100, 0, 0), Options{})
	assertPath(t, []terrain.Waypoint{
		wp(0, 0, 0), wp(40, 0, 0), wp(40, 0, -5), wp(50, 0, -5), wp(50, 0, 0), wp(100, 0, 0),
	}, path)
}

func TestConstructPath_Walking_UnderSlab(t *testing.T) {
	start, end := wp(0, 0, 0), wp(100, 0, 0)
	path := ConstructPath(slabScene(), start, end, Options{})
	assert.Equal(t, []terrain.Waypoint{start, end}, path)
}

func TestConstructPath_Walking_OffSlab(t *testing.T) {
	path := ConstructPath(slabScene(), wp(50, 0, 5), wp(100, 0, 5), Options{})
	assertPath(t, []terrain.Waypoint{
		wp(50, 0, 5), wp(60, 0, 5), wp(60, 0, 0), wp(100, 0, 0),
	}, path)
}

func TestConstructPath_Walking_FallsFromAir(t *testing.T) {
	path := ConstructPath(plateauScene(), wp(0, 0, 8), wp(100, 0, 0), Options{Flying: boolPtr(false)})
	assertPath(t, []terrain.Waypoint{
		wp(0, 0, 8), wp(0, 0, 0), wp(20, 0, 0), wp(20, 0, 5), wp(30, 0, 5), wp(30, 0, 0), wp(100, 0, 0),
	}, path)
}

func TestConstructPath_Flying_AbovePlateau(t *testing.T) {
	start, end := wp(0, 0, 10), wp(100, 0, 10)
	path := ConstructPath(plateauScene(), start, end, Options{})
	assert.Equal(t, []terrain.Waypoint{start, end}, path)
}

func TestConstructPath_Flying_OverPlateau(t *testing.T) {
	path := ConstructPath(plateauScene(), wp(0, 0, 0), wp(100, 0, 0), Options{Flying: boolPtr(true)})
	assertPath(t, []terrain.Waypoint{
		wp(0, 0, 0), wp(20, 0, 5), wp(30, 0, 5), wp(100, 0, 0),
	}, path)
}

func TestConstructPath_Flying_TargetInsideTerrain(t *testing.T) {
	path := ConstructPath(plateauScene(), wp(0, 0, 10), wp(25, 0, 2), Options{Flying: boolPtr(true)})
	require.Len(t, path, 2)
	assert.InDelta(t, 25, path[1].X, 1e-6)
	assert.InDelta(t, 5, path[1].Elevation, 1e-6)
}

func TestConstructPath_Burrowing_UnderPit(t *testing.T) {
	path := ConstructPath(pitScene(), wp(0, 0, -1), wp(100, 0, -1), Options{})
	assertPath(t, []terrain.Waypoint{
		wp(0, 0, -1), wp(40, 0, -5), wp(50, 0, -5), wp(100, 0, -1),
	}, path)
}

func TestConstructPath_Burrowing_ThroughPlateau(t *testing.T) {
	start, end := wp(0, 0, 0), wp(100, 0, 0)
	path := ConstructPath(plateauScene(), start, end, Options{Burrowing: boolPtr(true)})
	assert.Equal(t, []terrain.Waypoint{start, end}, path)
}

func TestConstructPath_Burrowing_StartsInAir(t *testing.T) {
	path := ConstructPath(plateauScene(), wp(0, 0, 4), wp(100, 0, -2), Options{Burrowing: boolPtr(true)})
	assertPath(t, []terrain.Waypoint{
		wp(0, 0, 4), wp(0, 0, 0), wp(100, 0, -2),
	}, path)
}

func TestConstructPath_Metrics(t *testing.T) {
	before := testutil.ToFloat64(metrics.PathQueries.WithLabelValues("walking"))
	ConstructPath(plateauScene(), wp(0, 0, 0), wp(100, 0, 0), Options{})
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.PathQueries.WithLabelValues("walking")))
}

func TestPathFinder_Mode(t *testing.T) {
	set := &cutaway.Set{Polys: []cutaway.Polygon{cutaway.Rect(-1, 101, -1e6, 0)}, Tol: testTol}

	tests := []struct {
		name      string
		from      math.Vec2
		flying    *bool
		burrowing *bool
		want      Mode
	}{
		{"ground infers walking", math.Vec2{X: 10, Y: 0}, nil, nil, Walking},
		{"air infers flying", math.Vec2{X: 10, Y: 3}, nil, nil, Flying},
		{"buried infers burrowing", math.Vec2{X: 10, Y: -3}, nil, nil, Burrowing},
		{"forced flying", math.Vec2{X: 10, Y: 0}, boolPtr(true), nil, Flying},
		{"forced walking in air", math.Vec2{X: 10, Y: 3}, boolPtr(false), nil, Walking},
		{"flying wins", math.Vec2{X: 10, Y: 0}, boolPtr(true), boolPtr(true), Flying},
		{"forced walking underground", math.Vec2{X: 10, Y: -3}, nil, boolPtr(false), Walking},
		{"forced burrowing in air", math.Vec2{X: 10, Y: 3}, nil, boolPtr(true), Burrowing},
		{"forced flying underground", math.Vec2{X: 10, Y: -3}, boolPtr(true), nil, Flying},
		{"burrowing inferred when flying is off", math.Vec2{X: 10, Y: -3}, boolPtr(false), nil, Burrowing},
		{"flying inferred when burrowing is off", math.Vec2{X: 10, Y: 3}, nil, boolPtr(false), Flying},
		{"both off", math.Vec2{X: 10, Y: 3}, boolPtr(false), boolPtr(false), Walking},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := NewPathFinder(&terrain.Scene{}, Options{Flying: tt.flying, Burrowing: tt.burrowing})
			assert.Equal(t, tt.want, pf.mode(set, tt.from))
		})
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "walking", Walking.String())
	assert.Equal(t, "flying", Flying.String())
	assert.Equal(t, "burrowing", Burrowing.String())
}

func TestSimplify(t *testing.T) {
	pts := []math.Vec2{
		{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}, {X: 10, Y: 5},
	}
	got := simplify(pts, testTol)
	assert.Equal(t, []math.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}}, got)
}

func TestPathFinder_Section(t *testing.T) {
	pf := NewPathFinder(plateauScene(), Options{})

	set, tr, ok := pf.Section(wp(0, 0, 0), wp(100, 0, 0))
	require.True(t, ok)
	assert.InDelta(t, 100, tr.Length(), 1e-9)
	assert.Equal(t, cutaway.Ground, set.Classify(math.Vec2{X: 25, Y: 5}))
	assert.Equal(t, cutaway.Below, set.Classify(math.Vec2{X: 25, Y: 2}))

	_, _, ok = pf.Section(wp(0, 0, 0), wp(0, 0, 5))
	assert.False(t, ok)

	_, _, ok = NewPathFinder(&terrain.Scene{}, Options{}).Section(wp(0, 0, 0), wp(100, 0, 0))
	assert.False(t, ok)
}
