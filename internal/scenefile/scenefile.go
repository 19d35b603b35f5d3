// Package scenefile reads terrain scenes from YAML documents.
package scenefile

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/terrainpath/internal/assets"
	"github.com/Faultbox/terrainpath/internal/terrain"
	"github.com/Faultbox/terrainpath/pkg/math"
)

// Profile type names.
const (
	ProfileNone    = "none"
	ProfilePlateau = "plateau"
	ProfileRamp    = "ramp"
)

// File is the YAML layout of a scene.
type File struct {
	Baseline float64       `yaml:"baseline"`
	Mover    terrain.Mover `yaml:"mover"`
	Regions  []RegionDef   `yaml:"regions"`
	Tiles    []TileDef     `yaml:"tiles"`
}

// RegionDef describes one region.
type RegionDef struct {
	Name    string     `yaml:"name"`
	Shapes  []ShapeDef `yaml:"shapes"`
	Profile ProfileDef `yaml:"profile"`
}

// ShapeDef is a polygon given as [x, y] pairs.
type ShapeDef struct {
	Points [][2]float64 `yaml:"points"`
	Hole   bool         `yaml:"hole"`
}

// ProfileDef selects a region profile by Type.
type ProfileDef struct {
	Type          string  `yaml:"type"`
	Elevation     float64 `yaml:"elevation"`
	Floor         float64 `yaml:"floor"`
	Plateau       float64 `yaml:"plateau"`
	Direction     float64 `yaml:"direction"`
	Step          float64 `yaml:"step"`
	SplitPolygons bool    `yaml:"split_polygons"`
}

// TileDef describes one tile. Image is resolved relative to the scene file.
type TileDef struct {
	X              float64  `yaml:"x"`
	Y              float64  `yaml:"y"`
	Width          float64  `yaml:"width"`
	Height         float64  `yaml:"height"`
	Rotation       float64  `yaml:"rotation"`
	Elevation      float64  `yaml:"elevation"`
	Floor          *bool    `yaml:"floor"`
	TrimBorder     bool     `yaml:"trim_border"`
	TestHoles      bool     `yaml:"test_holes"`
	Image          string   `yaml:"image"`
	AlphaThreshold *float64 `yaml:"alpha_threshold"`
}

// Scene is a loaded scene with its default mover.
type Scene struct {
	*terrain.Scene
	Mover terrain.Mover
}

// Load reads the scene at path. Tile images are loaded through m, which
// should have the scene's directory among its roots; Load adds it.
func Load(path string, m *assets.Manager) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	if err := m.AddRoot(filepath.Dir(path)); err != nil {
		return nil, err
	}
	return Parse(data, m)
}

// Parse builds a scene from YAML data.
func Parse(data []byte, m *assets.Manager) (*Scene, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	return f.Build(m)
}

// Build converts the file layout into terrain objects.
func (f *File) Build(m *assets.Manager) (*Scene, error) {
	scene := &terrain.Scene{Baseline: f.Baseline}

	for i, rd := range f.Regions {
		r, err := rd.build()
		if err != nil {
			return nil, fmt.Errorf("region %d (%s): %w", i, rd.Name, err)
		}
		scene.Regions = append(scene.Regions, r)
	}

	for i, td := range f.Tiles {
		t, err := td.build(m)
		if err != nil {
			return nil, fmt.Errorf("tile %d: %w", i, err)
		}
		scene.Tiles = append(scene.Tiles, t)
	}

	return &Scene{Scene: scene, Mover: f.Mover}, nil
}

func (rd RegionDef) build() (*terrain.Region, error) {
	profile, err := rd.Profile.build()
	if err != nil {
		return nil, err
	}

	shapes := make([]terrain.Shape, 0, len(rd.Shapes))
	for i, s := range rd.Shapes {
		if len(s.Points) < 3 {
			return nil, fmt.Errorf("shape %d has %d points, need at least 3", i, len(s.Points))
		}
		pts := make([]math.Vec2, len(s.Points))
		for j, p := range s.Points {
			pts[j] = math.Vec2{X: p[0], Y: p[1]}
		}
		shapes = append(shapes, terrain.Shape{Points: pts, Hole: s.Hole})
	}
	return terrain.NewRegion(rd.Name, shapes, profile), nil
}

func (pd ProfileDef) build() (terrain.Profile, error) {
	switch pd.Type {
	case "", ProfileNone:
		return terrain.NoProfile{}, nil
	case ProfilePlateau:
		return terrain.Plateau{Elevation: pd.Elevation}, nil
	case ProfileRamp:
		return terrain.Ramp{
			Floor:         pd.Floor,
			Plateau:       pd.Plateau,
			Direction:     pd.Direction,
			Step:          pd.Step,
			SplitPolygons: pd.SplitPolygons,
		}, nil
	default:
		return nil, fmt.Errorf("unknown profile type %q", pd.Type)
	}
}

func (td TileDef) build(m *assets.Manager) (*terrain.Tile, error) {
	if td.Width <= 0 || td.Height <= 0 {
		return nil, fmt.Errorf("size %gx%g must be positive", td.Width, td.Height)
	}

	t := terrain.NewTile(td.X, td.Y, td.Width, td.Height, td.Elevation)
	t.Rotation = td.Rotation
	t.TrimBorder = td.TrimBorder
	t.TestHoles = td.TestHoles
	if td.Floor != nil {
		t.IsFloor = *td.Floor
	}
	if td.AlphaThreshold != nil {
		t.AlphaThreshold = *td.AlphaThreshold
	}
	if td.Image != "" {
		mask, err := m.LoadAlphaMask(td.Image)
		if err != nil {
			return nil, err
		}
		t.Alpha = mask
	}
	t.MarkDirty()
	return t, nil
}
