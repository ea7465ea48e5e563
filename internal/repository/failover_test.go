package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockLimitRepo struct {
	mock.Mock
}

func (m *mockLimitRepo) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func TestFailoverLimitRepository(t *testing.T) {
	primary := new(mockLimitRepo)
	fallback := new(mockLimitRepo)
	logger := zerolog.New(io.Discard)
	repo := NewFailoverLimitRepository(primary, fallback, &logger)
	current := time.Date(2025, 12, 24, 8, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return current }
	ctx := context.Background()

	t.Run("PrimarySuccess", func(t *testing.T) {
		primary.On("CheckRateLimit", ctx, "a", 5, time.Second).Return(true, nil).Once()

		allowed, err := repo.CheckRateLimit(ctx, "a", 5, time.Second)
		assert.NoError(t, err)
		assert.True(t, allowed)
		primary.AssertExpectations(t)
	})

	t.Run("PrimaryFailFallbackSuccess", func(t *testing.T) {
		primary.On("CheckRateLimit", ctx, "b", 5, time.Second).Return(false, errors.New("fail")).Once()
		fallback.On("CheckRateLimit", ctx, "b", 5, time.Second).Return(true, nil).Once()

		allowed, err := repo.CheckRateLimit(ctx, "b", 5, time.Second)
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.True(t, repo.Degraded())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("StaysOnFallbackWithinInterval", func(t *testing.T) {
		fallback.On("CheckRateLimit", ctx, "c", 5, time.Second).Return(false, nil).Once()

		allowed, err := repo.CheckRateLimit(ctx, "c", 5, time.Second)
		assert.NoError(t, err)
		assert.False(t, allowed)
		primary.AssertNotCalled(t, "CheckRateLimit", ctx, "c", 5, time.Second)
		fallback.AssertExpectations(t)
	})

	t.Run("RecoveryAttempt", func(t *testing.T) {
		current = current.Add(2 * time.Minute)
		primary.On("CheckRateLimit", ctx, "d", 5, time.Second).Return(true, nil).Once()

		allowed, err := repo.CheckRateLimit(ctx, "d", 5, time.Second)
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.False(t, repo.Degraded())
		primary.AssertExpectations(t)
	})
}
