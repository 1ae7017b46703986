// Package ratelimit paces calls to remote services, one token bucket per
// named downstream.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limit is the shape of one token bucket. Non-positive fields fall back to
// the pool's default.
type Limit struct {
	PerSecond float64
	Burst     int
}

var DefaultLimit = Limit{PerSecond: 5, Burst: 10}

func (l Limit) or(fallback Limit) Limit {
	if l.PerSecond <= 0 {
		l.PerSecond = fallback.PerSecond
	}
	if l.Burst <= 0 {
		l.Burst = fallback.Burst
	}
	return l
}

// Pool hands out buckets by downstream name. Names listed in overrides get
// their own limit; every other name gets the fallback.
type Pool struct {
	fallback  Limit
	overrides map[string]Limit

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

func NewPool(fallback Limit, overrides map[string]Limit) *Pool {
	fallback = fallback.or(DefaultLimit)
	limits := make(map[string]Limit, len(overrides))
	for name, l := range overrides {
		limits[name] = l.or(fallback)
	}
	return &Pool{
		fallback:  fallback,
		overrides: limits,
		buckets:   make(map[string]*rate.Limiter),
	}
}

// Limit reports the limit applied to downstream.
func (p *Pool) Limit(downstream string) Limit {
	if l, ok := p.overrides[downstream]; ok {
		return l
	}
	return p.fallback
}

func (p *Pool) bucket(downstream string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.buckets[downstream]
	if !ok {
		l := p.Limit(downstream)
		b = rate.NewLimiter(rate.Limit(l.PerSecond), l.Burst)
		p.buckets[downstream] = b
	}
	return b
}

// Wait blocks until downstream may be called or ctx is done.
func (p *Pool) Wait(ctx context.Context, downstream string) error {
	return p.bucket(downstream).Wait(ctx)
}
