package holes

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/terrainpath/internal/config"
)

func TestBuildAsync(t *testing.T) {
	b := NewBuilder(config.HoleConfig{})
	alpha := squareHole(12, 6)

	ch := b.BuildAsync(context.Background(), Request{Key: "tile-a", Alpha: alpha, Width: 12, Threshold: 0.5})

	// The request owns a copy, so later edits do not leak into the build.
	for i := range alpha {
		alpha[i] = 0
	}

	select {
	case res := <-ch:
		require.NoError(t, res.Err)
		assert.Equal(t, "tile-a", res.Key)
		assert.Equal(t, uint16(0), res.Field.At(0, 0))
		assert.Equal(t, uint16(3), res.Field.At(5, 5))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for field")
	}

	_, open := <-ch
	assert.False(t, open)
}

func TestBuildAsyncCanceled(t *testing.T) {
	b := NewBuilder(config.HoleConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := <-b.BuildAsync(ctx, Request{Key: "gone", Alpha: squareHole(8, 2), Width: 8, Threshold: 0.5})
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Nil(t, res.Field)
}

func TestBuildAll(t *testing.T) {
	b := NewBuilder(config.HoleConfig{Workers: 2})

	var reqs []Request
	for i := 0; i < 5; i++ {
		size := 6 + 2*i
		reqs = append(reqs, Request{
			Key:       fmt.Sprintf("tile-%d", i),
			Alpha:     squareHole(size, 2),
			Width:     size,
			Threshold: 0.5,
		})
	}

	fields, err := b.BuildAll(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, fields, len(reqs))
	for i, f := range fields {
		assert.Equal(t, reqs[i].Width, f.Width, "field %d out of order", i)
	}
}

func TestBuildAllStopsOnError(t *testing.T) {
	b := NewBuilder(config.HoleConfig{Workers: 1})
	reqs := []Request{
		{Key: "ok", Alpha: squareHole(4, 2), Width: 4},
		{Key: "bad", Alpha: make([]uint8, 5), Width: 4},
	}

	_, err := b.BuildAll(context.Background(), reqs)
	assert.ErrorIs(t, err, ErrInvalidBuffer)
}

func TestBuildSharedKey(t *testing.T) {
	b := NewBuilder(config.HoleConfig{})
	req := Request{Key: "same", Alpha: squareHole(32, 10), Width: 32, Threshold: 0.5}

	first := b.BuildAsync(context.Background(), req)
	second := b.BuildAsync(context.Background(), req)

	r1, r2 := <-first, <-second
	require.NoError(t, r1.Err)
	require.NoError(t, r2.Err)
	assert.Equal(t, r1.Field.Dist, r2.Field.Dist)

	// Each caller owns its result even when the build was shared.
	r1.Field.Dist[0] = 42
	assert.NotEqual(t, r1.Field.Dist[0], r2.Field.Dist[0])
}
