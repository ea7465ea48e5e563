package api

import (
	"context"
	"sync"
	"time"

	"snowpool/internal/config"
	"snowpool/internal/domain"

	"golang.org/x/time/rate"
)

// Limiter decides whether the client identified by key may make another request.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// NewLimiter picks the fixed window backed by repo when one is given, the per-client token
// bucket when rps is positive, and no limiter otherwise.
func NewLimiter(cfg config.APIRateLimitConfig, repo domain.LimitRepository) Limiter {
	if repo != nil && cfg.Requests > 0 {
		window := time.Duration(cfg.WindowSeconds) * time.Second
		if window <= 0 {
			window = time.Minute
		}
		return &windowLimiter{repo: repo, limit: cfg.Requests, window: window}
	}
	if cfg.RPS > 0 {
		return newTokenBucketLimiter(cfg)
	}
	return nil
}

type tokenBucketLimiter struct {
	limiters sync.Map
	rps      float64
	burst    int
}

func newTokenBucketLimiter(cfg config.APIRateLimitConfig) *tokenBucketLimiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}
	return &tokenBucketLimiter{rps: cfg.RPS, burst: burst}
}

func (l *tokenBucketLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.getLimiter(key).Allow(), nil
}

func (l *tokenBucketLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim
		}
	}

	lim := rate.NewLimiter(rate.Limit(l.rps), l.burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		if actualLim, ok := actual.(*rate.Limiter); ok {
			return actualLim
		}
	}
	return lim
}

type windowLimiter struct {
	repo   domain.LimitRepository
	limit  int
	window time.Duration
}

func (l *windowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.repo.CheckRateLimit(ctx, key, l.limit, l.window)
}
