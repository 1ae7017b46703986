// Package cache keeps the rendered list view of each record variant between writes.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/fleetdesk/internal/models"
)

// Cache stores a variant's list view as JSON until the next write invalidates it.
type Cache interface {
	Get(ctx context.Context, variant models.Variant) ([]byte, bool)
	Set(ctx context.Context, variant models.Variant, view []byte) error
	Invalidate(ctx context.Context, variant models.Variant) error
	Close() error
}

// RedisOptions configures the Redis-backed list cache. A zero TTL keeps views
// until they are invalidated.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisCache connects to opts.Addr and fails if the server does not answer
// a PING before ctx is done.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	return NewRedisCacheWithClient(client, opts.TTL), nil
}

func NewRedisCacheWithClient(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get treats every Redis failure as a miss.
func (c *RedisCache) Get(ctx context.Context, variant models.Variant) ([]byte, bool) {
	data, err := c.client.Get(ctx, Key(variant)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *RedisCache) Set(ctx context.Context, variant models.Variant, view []byte) error {
	return c.client.Set(ctx, Key(variant), view, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, variant models.Variant) error {
	return c.client.Del(ctx, Key(variant)).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (NoOpCache) Get(ctx context.Context, variant models.Variant) ([]byte, bool) { return nil, false }
func (NoOpCache) Set(ctx context.Context, variant models.Variant, view []byte) error {
	return nil
}
func (NoOpCache) Invalidate(ctx context.Context, variant models.Variant) error { return nil }
func (NoOpCache) Close() error                                                 { return nil }

func Key(variant models.Variant) string {
	return "fleet:list:" + string(variant)
}
