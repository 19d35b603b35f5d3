package terrain

import (
	"image"

	"github.com/Faultbox/terrainpath/internal/holes"
)

// AlphaMask is the opacity channel of a tile image, one byte per pixel in
// row-major order.
type AlphaMask struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewAlphaMask extracts the alpha channel of img.
func NewAlphaMask(img image.Image) *AlphaMask {
	b := img.Bounds()
	m := &AlphaMask{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    make([]uint8, b.Dx()*b.Dy()),
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			m.Pix[(x-b.Min.X)+(y-b.Min.Y)*m.Width] = uint8(a >> 8)
		}
	}
	return m
}

// At returns the alpha at (x, y); pixels off the image are transparent.
func (m *AlphaMask) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0
	}
	return m.Pix[x+y*m.Width]
}

// Opaque reports whether (x, y) counts as floor material.
func (m *AlphaMask) Opaque(x, y int, threshold float64) bool {
	return holes.Opaque(m.At(x, y), threshold)
}

// OpaqueBounds returns the pixel rectangle [x0, x1) x [y0, y1) enclosing every
// opaque pixel. ok is false when no pixel is opaque.
func (m *AlphaMask) OpaqueBounds(threshold float64) (r image.Rectangle, ok bool) {
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.Opaque(x, y, threshold) {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if !ok {
				r, ok = px, true
				continue
			}
			r = r.Union(px)
		}
	}
	return r, ok
}
