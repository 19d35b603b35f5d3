package terrain

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAlphaMask(t *testing.T) {
	img := image.NewNRGBA(image.Rect(2, 3, 5, 5))
	img.SetNRGBA(2, 3, color.NRGBA{A: 255})
	img.SetNRGBA(4, 4, color.NRGBA{R: 10, A: 128})

	m := NewAlphaMask(img)
	assert.Equal(t, 3, m.Width)
	assert.Equal(t, 2, m.Height)
	assert.Equal(t, uint8(255), m.At(0, 0))
	assert.Equal(t, uint8(128), m.At(2, 1))
	assert.Equal(t, uint8(0), m.At(1, 0))
	assert.Equal(t, uint8(0), m.At(-1, 0))
}

func TestOpaqueBounds(t *testing.T) {
	m := &AlphaMask{Width: 4, Height: 4, Pix: make([]uint8, 16)}
	_, ok := m.OpaqueBounds(0.5)
	assert.False(t, ok)

	m.Pix[1+1*4] = 200
	m.Pix[2+3*4] = 255
	m.Pix[3+0*4] = 100
	r, ok := m.OpaqueBounds(0.5)
	assert.True(t, ok)
	assert.Equal(t, image.Rect(1, 1, 3, 4), r)
}
