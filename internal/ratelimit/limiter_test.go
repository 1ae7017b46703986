package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestPoolSharesBucketPerName(t *testing.T) {
	p := NewPool(DefaultLimit, nil)

	assert.Same(t, p.bucket("embed"), p.bucket("embed"))
	assert.NotSame(t, p.bucket("embed"), p.bucket("generate"))
	assert.Equal(t, 10, p.bucket("embed").Burst())
}

func TestPoolOverridesAndFallback(t *testing.T) {
	p := NewPool(Limit{}, map[string]Limit{
		"embed": {PerSecond: 50},
	})

	assert.Equal(t, DefaultLimit, p.Limit("generate"))
	assert.Equal(t, Limit{PerSecond: 50, Burst: 10}, p.Limit("embed"))
	assert.Equal(t, rate.Limit(50), p.bucket("embed").Limit())
}

func TestWaitHonoursContext(t *testing.T) {
	p := NewPool(DefaultLimit, map[string]Limit{
		"generate": {PerSecond: 0.001, Burst: 1},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.NoError(t, p.Wait(ctx, "generate"))
	assert.Error(t, p.Wait(ctx, "generate"))
	assert.NoError(t, p.Wait(ctx, "embed"))
}
