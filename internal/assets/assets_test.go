package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

// checker returns a 2x2 image with transparent pixels on the diagonal.
func checker() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{A: 0})
	img.SetNRGBA(1, 0, color.NRGBA{R: 10, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{G: 10, A: 200})
	img.SetNRGBA(1, 1, color.NRGBA{A: 0})
	return img
}

func TestManagerLoadAlphaMask(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "tile.png"), checker())

	m := NewManager(dir)
	mask, err := m.LoadAlphaMask("tile.png")
	require.NoError(t, err)
	assert.Equal(t, 2, mask.Width)
	assert.Equal(t, []uint8{0, 255, 200, 0}, mask.Pix)

	again, err := m.LoadAlphaMask("tile.png")
	require.NoError(t, err)
	assert.Same(t, mask, again)
}

func TestManagerRootPriority(t *testing.T) {
	low, high := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(low, "a.txt"), []byte("low"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(high, "a.txt"), []byte("high"), 0644))

	m := NewManager()
	require.NoError(t, m.AddRoot(low))
	require.NoError(t, m.AddRoot(high))

	data, err := m.Load("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "high", string(data))

	_, err = m.Load("a.txt")
	require.NoError(t, err)
	hits, misses := m.cache.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestManagerErrors(t *testing.T) {
	m := NewManager(t.TempDir())
	_, err := m.Load("missing.png")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, m.AddRoot(filepath.Join(t.TempDir(), "nope")))

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	assert.Error(t, m.AddRoot(file))
}

func TestManagerAbsolutePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tile.png")
	writePNG(t, path, checker())

	mask, err := NewManager().LoadAlphaMask(path)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), mask.At(1, 0))
}

func TestManagerBMPMagentaKey(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, B: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 40, G: 40, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, img))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tile.bmp"), buf.Bytes(), 0644))

	mask, err := NewManager(dir).LoadAlphaMask("tile.bmp")
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 255}, mask.Pix)
}

func TestManagerClose(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "tile.png"), checker())

	m := NewManager(dir)
	first, err := m.LoadAlphaMask("tile.png")
	require.NoError(t, err)
	m.Close()

	second, err := m.LoadAlphaMask("tile.png")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, first.Pix, second.Pix)
}
