package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/terrainpath/internal/config"
	"github.com/Faultbox/terrainpath/internal/terrain"
	"github.com/Faultbox/terrainpath/internal/world"
)

func TestExampleScene(t *testing.T) {
	cfg := config.Default()
	scene, err := loadScene(context.Background(), cfg, "testdata/scene.yaml", true)
	require.NoError(t, err)
	require.Len(t, scene.Regions, 3)
	require.Len(t, scene.Tiles, 1)

	opts, err := (&queryFlags{}).options(cfg, scene)
	require.NoError(t, err)

	path := world.ConstructPath(scene.Scene,
		terrain.Waypoint{X: 0, Y: 0, Elevation: 0},
		terrain.Waypoint{X: 35, Y: 0, Elevation: 0},
		opts)
	want := []terrain.Waypoint{
		{X: 0, Y: 0, Elevation: 0},
		{X: 20, Y: 0, Elevation: 0},
		{X: 20, Y: 0, Elevation: 5},
		{X: 30, Y: 0, Elevation: 5},
		{X: 30, Y: 0, Elevation: 0},
		{X: 35, Y: 0, Elevation: 0},
	}
	require.Len(t, path, len(want))
	for i := range want {
		assert.InDelta(t, want[i].X, path[i].X, 1e-6)
		assert.InDelta(t, want[i].Elevation, path[i].Elevation, 1e-6)
	}

	assert.InDelta(t, 8, world.NearestGroundElevation(scene.Scene, terrain.Waypoint{X: 45, Y: 0, Elevation: 9}, opts), 1e-9)
	assert.InDelta(t, -5, world.NearestGroundElevation(scene.Scene, terrain.Waypoint{X: 45, Y: 0, Elevation: 6}, opts), 1e-9)
}
