package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/dharmasatrya/fleetdesk/internal/models"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "fleet:list:planes", Key(models.VariantPlanes))
	assert.Equal(t, "fleet:list:legs", Key(models.VariantLegs))
}

func TestNoOpCacheNeverHits(t *testing.T) {
	c := NewNoOpCache()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, models.VariantPlanes, []byte(`[]`)))
	_, found := c.Get(ctx, models.VariantPlanes)
	assert.False(t, found)
	assert.NoError(t, c.Invalidate(ctx, models.VariantPlanes))
	assert.NoError(t, c.Close())
}

func TestRedisCacheUnavailableIsAMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisCacheWithClient(client, time.Minute)
	defer c.Close()

	ctx := context.Background()
	_, found := c.Get(ctx, models.VariantLegs)
	assert.False(t, found)
	assert.Error(t, c.Set(ctx, models.VariantLegs, []byte(`[]`)))
}

func TestNewRedisCacheFailsWithoutServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, RedisOptions{Addr: "127.0.0.1:1"})
	assert.ErrorContains(t, err, "ping redis at 127.0.0.1:1")
}
