package debug

import (
	"image"
	"image/color"
	stdmath "math"

	"github.com/Faultbox/terrainpath/internal/cutaway"
	"github.com/Faultbox/terrainpath/internal/holes"
	"github.com/Faultbox/terrainpath/pkg/math"
)

// Colors used for cutaway renders.
var (
	AirColor      = color.NRGBA{R: 235, G: 242, B: 250, A: 255}
	SolidColor    = color.NRGBA{R: 120, G: 100, B: 80, A: 255}
	PathColor     = color.NRGBA{R: 220, G: 30, B: 30, A: 255}
	WaypointColor = color.NRGBA{R: 20, G: 20, B: 20, A: 255}
)

// FieldImage renders a hole distance field as grayscale. Material is black,
// each unit of distance adds step levels and saturated pixels are white.
func FieldImage(f *holes.Field, step uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			d := f.At(x, y)
			v := uint8(255)
			if d != holes.Saturation {
				v = uint8(stdmath.Min(float64(d)*float64(step), 255))
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

// CutawayImage renders the terrain outlines within view, y up, and draws path
// over them.
func CutawayImage(set *cutaway.Set, view math.Rect, width, height int, path []math.Vec2) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	sx := (view.Max.X - view.Min.X) / float64(width)
	sy := (view.Max.Y - view.Min.Y) / float64(height)

	for py := 0; py < height; py++ {
		for px := 0; px < width; px++ {
			p := math.Vec2{
				X: view.Min.X + (float64(px)+0.5)*sx,
				Y: view.Max.Y - (float64(py)+0.5)*sy,
			}
			c := AirColor
			if !set.InAir(p) {
				c = SolidColor
			}
			img.SetNRGBA(px, py, c)
		}
	}

	toPixel := func(p math.Vec2) (int, int) {
		return int((p.X - view.Min.X) / sx), int((view.Max.Y - p.Y) / sy)
	}
	for i := 0; i+1 < len(path); i++ {
		x0, y0 := toPixel(path[i])
		x1, y1 := toPixel(path[i+1])
		it := math.NewLineIterator(x0, y0, x1, y1)
		for it.Next() {
			img.SetNRGBA(it.X, it.Y, PathColor)
		}
	}
	for _, p := range path {
		x, y := toPixel(p)
		img.SetNRGBA(x, y, WaypointColor)
	}
	return img
}
