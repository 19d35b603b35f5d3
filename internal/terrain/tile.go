package terrain

import (
	"context"
	stdmath "math"
	"sort"
	"strconv"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/terrainpath/internal/cutaway"
	"github.com/Faultbox/terrainpath/internal/holes"
	"github.com/Faultbox/terrainpath/internal/logger"
	"github.com/Faultbox/terrainpath/pkg/math"
)

// DefaultAlphaThreshold is the alpha, in [0, 1], below which a pixel is a
// perforation.
const DefaultAlphaThreshold = 0.75

// Tile is a rectangular floor image at a fixed elevation. X and Y locate the
// unrotated top-left corner; Rotation turns the tile about its centre.
//
// Geometry, Alpha and AlphaThreshold may be edited between queries; call
// MarkDirty afterwards (SetAlpha and SetAlphaThreshold do so).
type Tile struct {
	ID             string
	X              float64
	Y              float64
	Width          float64
	Height         float64
	Rotation       float64
	Elevation      float64
	IsFloor        bool
	TrimBorder     bool
	TestHoles      bool
	Alpha          *AlphaMask
	AlphaThreshold float64

	version atomic.Uint64
	frame   atomic.Pointer[tileFrame]
	field   atomic.Pointer[tileField]
}

// tileFrame holds the transforms derived from one version of a tile.
type tileFrame struct {
	version uint64
	toLocal mgl64.Mat3
	bounds  math.Rect
	usable  math.Rect
	empty   bool
	scale   math.Vec2
}

type tileField struct {
	version uint64
	field   *holes.Field
}

// NewTile creates a floor tile with a fresh ID.
func NewTile(x, y, width, height, elevation float64) *Tile {
	return &Tile{
		ID:             uuid.NewString(),
		X:              x,
		Y:              y,
		Width:          width,
		Height:         height,
		Elevation:      elevation,
		IsFloor:        true,
		AlphaThreshold: DefaultAlphaThreshold,
	}
}

// SetAlpha replaces the opacity image.
func (t *Tile) SetAlpha(m *AlphaMask) {
	t.Alpha = m
	t.MarkDirty()
}

// SetAlphaThreshold replaces the perforation threshold.
func (t *Tile) SetAlphaThreshold(v float64) {
	t.AlphaThreshold = v
	t.MarkDirty()
}

// MarkDirty invalidates transforms, trim bounds and the hole field.
func (t *Tile) MarkDirty() {
	t.version.Add(1)
}

// Profile returns the tile's elevation behaviour.
func (t *Tile) Profile() Profile {
	if !t.IsFloor {
		return NoProfile{}
	}
	return FloorSlab{Elevation: t.Elevation, TestHoles: t.TestHoles}
}

// frameOf returns the transforms for the current version.
func (t *Tile) frameOf() *tileFrame {
	v := t.version.Load()
	if f := t.frame.Load(); f != nil && f.version == v {
		return f
	}

	cx, cy := t.X+t.Width/2, t.Y+t.Height/2
	toLocal := mgl64.Translate2D(t.Width/2, t.Height/2).
		Mul3(mgl64.HomogRotate2D(-mgl64.DegToRad(t.Rotation))).
		Mul3(mgl64.Translate2D(-cx, -cy))
	toWorld := toLocal.Inv()

	f := &tileFrame{
		version: v,
		toLocal: toLocal,
		usable:  math.Rect{Max: math.Vec2{X: t.Width, Y: t.Height}},
		empty:   t.Width <= 0 || t.Height <= 0,
	}

	corners := make([]math.Vec2, 0, 4)
	for _, c := range []mgl64.Vec3{{0, 0, 1}, {t.Width, 0, 1}, {t.Width, t.Height, 1}, {0, t.Height, 1}} {
		w := toWorld.Mul3x1(c)
		corners = append(corners, math.Vec2{X: w[0], Y: w[1]})
	}
	f.bounds = math.BoundsOf(corners)

	if t.Alpha != nil && !f.empty {
		f.scale = math.Vec2{
			X: float64(t.Alpha.Width) / t.Width,
			Y: float64(t.Alpha.Height) / t.Height,
		}
		if t.TrimBorder {
			r, ok := t.Alpha.OpaqueBounds(t.AlphaThreshold)
			f.empty = !ok
			f.usable = math.Rect{
				Min: math.Vec2{X: float64(r.Min.X) / f.scale.X, Y: float64(r.Min.Y) / f.scale.Y},
				Max: math.Vec2{X: float64(r.Max.X) / f.scale.X, Y: float64(r.Max.Y) / f.scale.Y},
			}
		}
	}

	t.frame.Store(f)
	return f
}

func (f *tileFrame) local(p math.Vec2) math.Vec2 {
	v := f.toLocal.Mul3x1(mgl64.Vec3{p.X, p.Y, 1})
	return math.Vec2{X: v[0], Y: v[1]}
}

func (f *tileFrame) pixel(local math.Vec2) math.Vec2 {
	return math.Vec2{X: local.X * f.scale.X, Y: local.Y * f.scale.Y}
}

// Bounds returns the world bounding rectangle of the rotated tile.
func (t *Tile) Bounds() math.Rect {
	return t.frameOf().bounds
}

// HoleThreshold returns the distance, in pixels, a perforation must reach for
// the mover to fall through it. It is never below one pixel.
func (t *Tile) HoleThreshold(mover Mover, settings Settings) float64 {
	settings = settings.Normalized()
	ppu := 1.0
	if t.Alpha != nil && t.Width > 0 {
		ppu = float64(t.Alpha.Width) / t.Width
	}
	threshold := stdmath.Max(mover.Width, mover.Height) * settings.Holes.Percent * ppu
	return stdmath.Max(threshold, 1)
}

// fieldKey identifies a hole field build for the current version.
func (t *Tile) fieldKey() string {
	return t.ID + "@" + strconv.FormatUint(t.version.Load(), 10)
}

// HoleField returns the tile's hole distance field, building it on first use.
func (t *Tile) HoleField(ctx context.Context, settings Settings) (*holes.Field, error) {
	v := t.version.Load()
	if f := t.field.Load(); f != nil && f.version == v {
		return f.field, nil
	}
	if t.Alpha == nil {
		return nil, holes.ErrInvalidBuffer
	}
	settings = settings.Normalized()
	field, err := holes.Build(ctx, t.Alpha.Pix, t.Alpha.Width, t.AlphaThreshold, settings.Holes.MaxPasses)
	if err != nil {
		return nil, err
	}
	t.storeField(v, field)
	return field, nil
}

// storeField publishes field if the tile has not changed since version v.
func (t *Tile) storeField(v uint64, field *holes.Field) {
	if t.version.Load() == v {
		t.field.Store(&tileField{version: v, field: field})
	}
}

// needsField reports whether a hole field should be prepared for the tile.
func (t *Tile) needsField() bool {
	if !t.IsFloor || !t.TestHoles || t.Alpha == nil {
		return false
	}
	f := t.field.Load()
	return f == nil || f.version != t.version.Load()
}

// PrepareHoleFields builds the missing hole fields of tiles on b's workers.
// Cancel ctx to abandon the builds, for example when tiles are deleted.
func PrepareHoleFields(ctx context.Context, b *holes.Builder, tiles []*Tile) error {
	var (
		pending  []*Tile
		versions []uint64
		reqs     []holes.Request
	)
	for _, t := range tiles {
		if !t.needsField() {
			continue
		}
		pending = append(pending, t)
		versions = append(versions, t.version.Load())
		reqs = append(reqs, holes.Request{
			Key:       t.fieldKey(),
			Alpha:     t.Alpha.Pix,
			Width:     t.Alpha.Width,
			Threshold: t.AlphaThreshold,
		})
	}
	if len(reqs) == 0 {
		return nil
	}

	fields, err := b.BuildAll(ctx, reqs)
	if err != nil {
		return err
	}
	for i, t := range pending {
		t.storeField(versions[i], fields[i])
	}
	return nil
}

// Cutaway returns the floor slabs of the tile along tr. Tiles that test for
// holes leave out the stretches where the mover fits through a perforation.
func (t *Tile) Cutaway(tr cutaway.Transform, mover Mover, settings Settings) []cutaway.Polygon {
	if !t.IsFloor {
		return nil
	}
	f := t.frameOf()
	length := tr.Length()
	if f.empty || length <= 0 {
		return nil
	}

	settings = settings.Normalized()
	tol := settings.Engine.Tolerance
	la, lb := f.local(tr.Start().XY()), f.local(tr.End().XY())
	t0, t1, ok := f.usable.ClipSegment(la, lb)
	if !ok || (t1-t0)*length <= tol {
		return nil
	}

	top := t.Elevation
	bottom := t.Elevation - settings.Engine.SlabThickness

	spans := [][2]float64{{t0, t1}}
	if t.TestHoles && t.Alpha != nil {
		spans = t.solidSpans(f, la, lb, t0, t1, mover, settings)
	}

	var out []cutaway.Polygon
	for _, s := range spans {
		if (s[1]-s[0])*length <= tol {
			continue
		}
		out = append(out, cutaway.Rect(s[0]*length, s[1]*length, bottom, top))
	}
	return out
}

// transition is a change of state between two adjacent pixels on the line.
type transition struct {
	t     float64
	alpha bool
	on    bool
}

// solidSpans walks the alpha mask and the hole field along la->lb between
// parameters t0 and t1 and returns the stretches where the floor holds the
// mover.
func (t *Tile) solidSpans(f *tileFrame, la, lb math.Vec2, t0, t1 float64, mover Mover, settings Settings) [][2]float64 {
	field, err := t.HoleField(context.Background(), settings)
	if err != nil {
		logger.Warn("Hole field unavailable, treating tile as solid",
			zap.String("tile", t.ID),
			zap.Error(err),
		)
		return [][2]float64{{t0, t1}}
	}
	threshold := t.HoleThreshold(mover, settings)

	x0, y0 := t.pixelIndex(f.pixel(la.Lerp(lb, t0)))
	x1, y1 := t.pixelIndex(f.pixel(la.Lerp(lb, t1)))
	it := math.NewLineIterator(x0, y0, x1, y1)
	n := it.Steps()
	param := func(i int) float64 {
		if n <= 1 {
			return t0
		}
		return t0 + float64(i)/float64(n-1)*(t1-t0)
	}

	var (
		alphaEdges []transition
		holeEdges  []transition
		opaque0    bool
		hole0      bool
		prevOpaque bool
		prevHole   bool
	)
	for i := 0; it.Next(); i++ {
		opaque := t.Alpha.Opaque(it.X, it.Y, t.AlphaThreshold)
		hole := float64(field.At(it.X, it.Y)) >= threshold
		if i == 0 {
			opaque0, hole0 = opaque, hole
		} else {
			mid := (param(i-1) + param(i)) / 2
			if opaque != prevOpaque {
				alphaEdges = append(alphaEdges, transition{t: mid, alpha: true, on: opaque})
			}
			if hole != prevHole {
				holeEdges = append(holeEdges, transition{t: mid, on: hole})
			}
		}
		prevOpaque, prevHole = opaque, hole
	}

	edges := append(alphaEdges, holeEdges...)
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].t < edges[j].t })

	opaque, hole := opaque0, hole0
	solid := func() bool { return opaque || !hole }

	var spans [][2]float64
	start, inside := t0, solid()
	for _, e := range edges {
		if e.alpha {
			opaque = e.on
		} else {
			hole = e.on
		}
		if now := solid(); now != inside {
			if inside {
				spans = append(spans, [2]float64{start, e.t})
			}
			start, inside = e.t, now
		}
	}
	if inside {
		spans = append(spans, [2]float64{start, t1})
	}
	return spans
}

// pixelIndex clamps a pixel-space point to a valid pixel of the mask.
func (t *Tile) pixelIndex(p math.Vec2) (int, int) {
	x := int(stdmath.Floor(p.X))
	y := int(stdmath.Floor(p.Y))
	if x >= t.Alpha.Width {
		x = t.Alpha.Width - 1
	}
	if y >= t.Alpha.Height {
		y = t.Alpha.Height - 1
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
}

// SupportsAt reports whether the tile holds the mover at world point p.
func (t *Tile) SupportsAt(p math.Vec2, mover Mover, settings Settings) bool {
	if !t.IsFloor {
		return false
	}
	f := t.frameOf()
	if f.empty {
		return false
	}
	local := f.local(p)
	if !f.usable.Contains(local) {
		return false
	}
	if !t.TestHoles || t.Alpha == nil {
		return true
	}
	field, err := t.HoleField(context.Background(), settings)
	if err != nil {
		return true
	}
	x, y := t.pixelIndex(f.pixel(local))
	return float64(field.At(x, y)) < t.HoleThreshold(mover, settings)
}
