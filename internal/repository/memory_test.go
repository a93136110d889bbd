package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimiter(t *testing.T) {
	limiter := NewMemoryRateLimiter()
	ctx := context.Background()

	t.Run("WithinLimit", func(t *testing.T) {
		callerID := int64(1)
		limit := 3
		window := time.Minute

		for i := 0; i < limit; i++ {
			allowed, err := limiter.Allow(ctx, callerID, limit, window)
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, err := limiter.Allow(ctx, callerID, limit, window)
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("WindowReset", func(t *testing.T) {
		callerID := int64(2)
		limit := 1
		window := 10 * time.Millisecond

		allowed, err := limiter.Allow(ctx, callerID, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = limiter.Allow(ctx, callerID, limit, window)
		require.NoError(t, err)
		assert.False(t, allowed)

		time.Sleep(20 * time.Millisecond)

		allowed, err = limiter.Allow(ctx, callerID, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("SeparateCallers", func(t *testing.T) {
		limit := 1
		window := time.Minute

		allowed, err := limiter.Allow(ctx, 10, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = limiter.Allow(ctx, 11, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}
