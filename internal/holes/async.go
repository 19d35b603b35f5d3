package holes

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Faultbox/terrainpath/internal/config"
	"github.com/Faultbox/terrainpath/internal/logger"
)

// Request describes one field build. Key identifies the source image and
// its revision; concurrent requests with the same key share one build.
type Request struct {
	Key       string
	Alpha     []uint8
	Width     int
	Threshold float64
}

// Result is delivered by BuildAsync.
type Result struct {
	Key   string
	Field *Field
	Err   error
}

// Builder runs field builds off the caller's goroutine.
type Builder struct {
	cfg   config.HoleConfig
	group singleflight.Group
}

// NewBuilder creates a builder using the relaxation cap and worker count of cfg.
func NewBuilder(cfg config.HoleConfig) *Builder {
	return &Builder{cfg: cfg.Normalized()}
}

// Build runs req synchronously, sharing the work with any in-flight build of
// the same key. The alpha buffer is copied before the build starts.
func (b *Builder) Build(ctx context.Context, req Request) (*Field, error) {
	alpha := make([]uint8, len(req.Alpha))
	copy(alpha, req.Alpha)

	v, err, shared := b.group.Do(req.Key, func() (interface{}, error) {
		logger.Debug("Building hole field",
			zap.String("key", req.Key),
			zap.Int("width", req.Width),
			zap.Int("bytes", len(alpha)),
		)
		return Build(ctx, alpha, req.Width, req.Threshold, b.cfg.MaxPasses)
	})
	if err != nil {
		return nil, err
	}
	f := v.(*Field)
	if shared {
		f = f.Clone()
	}
	return f, nil
}

// BuildAsync starts req in a new goroutine. The channel receives exactly one
// result and is then closed.
func (b *Builder) BuildAsync(ctx context.Context, req Request) <-chan Result {
	alpha := make([]uint8, len(req.Alpha))
	copy(alpha, req.Alpha)
	req.Alpha = alpha

	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		f, err := b.Build(ctx, req)
		ch <- Result{Key: req.Key, Field: f, Err: err}
	}()
	return ch
}

// BuildAll builds every request with at most cfg.Workers running at once.
// The first failure cancels the remaining builds. Results keep request order.
func (b *Builder) BuildAll(ctx context.Context, reqs []Request) ([]*Field, error) {
	fields := make([]*Field, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Workers)

	for i, req := range reqs {
		g.Go(func() error {
			f, err := b.Build(ctx, req)
			if err != nil {
				return err
			}
			fields[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return fields, nil
}
