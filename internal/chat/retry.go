package chat

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dharmasatrya/fleetdesk/internal/metrics"
	"github.com/dharmasatrya/fleetdesk/internal/ratelimit"
)

const (
	DownstreamEmbed    = "embed"
	DownstreamGenerate = "generate"
)

type RetryPolicy struct {
	Timeout     time.Duration
	MaxRetries  int
	RetryDelays []time.Duration
	RateLimiter *ratelimit.Pool
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Timeout:     30 * time.Second,
		MaxRetries:  2,
		RetryDelays: []time.Duration{100 * time.Millisecond, 500 * time.Millisecond},
	}
}

// call runs fn against one downstream, waiting on the limiter and retrying on
// error. Each attempt gets its own Timeout.
func (p RetryPolicy) call(ctx context.Context, logger *zap.Logger, downstream string, fn func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if attempt > 0 && len(p.RetryDelays) > 0 {
			delayIdx := attempt - 1
			if delayIdx >= len(p.RetryDelays) {
				delayIdx = len(p.RetryDelays) - 1
			}

			select {
			case <-time.After(p.RetryDelays[delayIdx]):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if p.RateLimiter != nil {
			if err := p.RateLimiter.Wait(ctx, downstream); err != nil {
				return err
			}
		}

		err := p.attempt(ctx, fn)
		if err == nil {
			metrics.DownstreamCalls.WithLabelValues(downstream, "ok").Inc()
			return nil
		}

		metrics.DownstreamCalls.WithLabelValues(downstream, "error").Inc()
		lastErr = err
		logger.Warn("downstream call failed",
			zap.String("downstream", downstream),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	return lastErr
}

func (p RetryPolicy) attempt(ctx context.Context, fn func(context.Context) error) error {
	if p.Timeout <= 0 {
		return fn(ctx)
	}
	callCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()
	return fn(callCtx)
}
