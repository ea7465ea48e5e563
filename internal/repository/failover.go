package repository

import (
	"context"
	"sync"
	"time"

	"snowpool/internal/domain"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverLimitRepository uses the primary store until it fails, then serves from the fallback
// and retries the primary once per recovery interval.
type FailoverLimitRepository struct {
	primary  domain.LimitRepository
	fallback domain.LimitRepository
	logger   *zerolog.Logger

	mu        sync.Mutex
	isDown    bool
	lastCheck time.Time
	now       func() time.Time
}

func NewFailoverLimitRepository(primary, fallback domain.LimitRepository, logger *zerolog.Logger) *FailoverLimitRepository {
	return &FailoverLimitRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

// usePrimary reports whether the primary should be tried for this call.
func (r *FailoverLimitRepository) usePrimary() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isDown {
		return true
	}
	if r.now().Sub(r.lastCheck) > recoveryInterval {
		r.lastCheck = r.now()
		return true
	}
	return false
}

func (r *FailoverLimitRepository) markDown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.isDown = true
	r.lastCheck = r.now()
}

func (r *FailoverLimitRepository) markUp() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isDown {
		r.logger.Info().Msg("Primary limit repository recovered")
	}
	r.isDown = false
}

func (r *FailoverLimitRepository) Degraded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isDown
}

func (r *FailoverLimitRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if r.usePrimary() {
		allowed, err := r.primary.CheckRateLimit(ctx, key, limit, window)
		if err == nil {
			r.markUp()
			return allowed, nil
		}
		r.logger.Error().Err(err).Msg("Primary limit repository failed, falling back to memory")
		r.markDown()
	}

	return r.fallback.CheckRateLimit(ctx, key, limit, window)
}
