package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryLimitRepository keeps fixed-window rate limit counters in process memory.
type MemoryLimitRepository struct {
	mu      sync.Mutex
	windows map[string]*rateLimitEntry
	now     func() time.Time
}

func NewMemoryLimitRepository() *MemoryLimitRepository {
	return &MemoryLimitRepository{
		windows: make(map[string]*rateLimitEntry),
		now:     time.Now,
	}
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemoryLimitRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	entry, ok := r.windows[key]
	if !ok || now.After(entry.expiresAt) {
		entry = &rateLimitEntry{expiresAt: now.Add(window)}
		r.windows[key] = entry
	}
	entry.count++

	return entry.count <= limit, nil
}

// Prune drops expired windows and returns how many were removed.
func (r *MemoryLimitRepository) Prune() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for key, entry := range r.windows {
		if now.After(entry.expiresAt) {
			delete(r.windows, key)
			removed++
		}
	}
	return removed
}
