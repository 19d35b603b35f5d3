// Package holes builds hole distance fields for perforated floor tiles.
//
// A field stores, per pixel, the grid distance to the nearest opaque pixel.
// Opaque pixels hold 0 and open space far from any material saturates.
package holes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/terrainpath/internal/logger"
	"github.com/Faultbox/terrainpath/internal/metrics"
)

// Saturation is the distance assigned to pixels with no material in reach.
const Saturation = 0xFFFF

// ErrInvalidBuffer is returned for empty or ragged alpha buffers.
var ErrInvalidBuffer = errors.New("holes: invalid alpha buffer")

// Field is a hole distance field aligned with a tile image.
type Field struct {
	Width  int
	Height int
	Dist   []uint16
}

// At returns the distance at pixel (x, y). Pixels off the image are saturated.
func (f *Field) At(x, y int) uint16 {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return Saturation
	}
	return f.Dist[x+y*f.Width]
}

// Clone returns a deep copy.
func (f *Field) Clone() *Field {
	dist := make([]uint16, len(f.Dist))
	copy(dist, f.Dist)
	return &Field{Width: f.Width, Height: f.Height, Dist: dist}
}

// Opaque reports whether an alpha value counts as floor material for a
// threshold in [0, 1].
func Opaque(alpha uint8, threshold float64) bool {
	return float64(alpha) > threshold*255
}

// Build computes the field for an alpha buffer of the given row width.
// Relaxation stops when a pass changes nothing or after maxPasses passes; the
// latter raises a diagnostic and returns the partially relaxed field.
// Cancellation is checked between passes.
func Build(ctx context.Context, alpha []uint8, width int, threshold float64, maxPasses int) (*Field, error) {
	start := time.Now()
	f, err := build(ctx, alpha, width, threshold, maxPasses)
	metrics.HoleFieldSeconds.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.HoleFieldBuilds.WithLabelValues("ok").Inc()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		metrics.HoleFieldBuilds.WithLabelValues("canceled").Inc()
	default:
		metrics.HoleFieldBuilds.WithLabelValues("error").Inc()
	}
	return f, err
}

func build(ctx context.Context, alpha []uint8, width int, threshold float64, maxPasses int) (*Field, error) {
	if width <= 0 || len(alpha) == 0 || len(alpha)%width != 0 {
		return nil, fmt.Errorf("%w: %d bytes, width %d", ErrInvalidBuffer, len(alpha), width)
	}

	f := &Field{
		Width:  width,
		Height: len(alpha) / width,
		Dist:   make([]uint16, len(alpha)),
	}
	for i, a := range alpha {
		if Opaque(a, threshold) {
			f.Dist[i] = 0
		} else {
			f.Dist[i] = Saturation
		}
	}

	for pass := 0; pass < maxPasses; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("hole field build: %w", err)
		}
		if !f.sweep(pass%2 == 0) {
			return f, nil
		}
	}

	logger.Diagnostic("hole_field_cap", "hole distance field did not converge",
		zap.Int("width", f.Width),
		zap.Int("height", f.Height),
		zap.Int("passes", maxPasses),
	)
	return f, nil
}

// Relax runs one forward and one backward pass and reports whether any
// distance changed. A converged field is left untouched.
func Relax(f *Field) bool {
	a := f.sweep(true)
	b := f.sweep(false)
	return a || b
}

// sweep relaxes every non-zero cell in raster order, or reversed.
func (f *Field) sweep(forward bool) bool {
	changed := false
	n := len(f.Dist)
	for k := 0; k < n; k++ {
		i := k
		if !forward {
			i = n - 1 - k
		}
		v := f.Dist[i]
		if v == 0 {
			continue
		}
		if nv := f.relaxed(i%f.Width, i/f.Width); nv < v {
			f.Dist[i] = nv
			changed = true
		}
	}
	return changed
}

// relaxed returns min(Saturation, 1 + min of the 8 neighbours).
func (f *Field) relaxed(x, y int) uint16 {
	best := uint32(Saturation)
	for dy := -1; dy <= 1; dy++ {
		ny := y + dy
		if ny < 0 || ny >= f.Height {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			nx := x + dx
			if (dx == 0 && dy == 0) || nx < 0 || nx >= f.Width {
				continue
			}
			if d := uint32(f.Dist[nx+ny*f.Width]); d < best {
				best = d
			}
		}
	}
	if best+1 > Saturation {
		return Saturation
	}
	return uint16(best + 1)
}
