package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpredict/market-api/internal/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// unreachableRedis returns a client pointing at a port nothing listens on,
// with retries disabled so probes fail fast
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestValidateConfig(t *testing.T) {
	t.Run("requires a positive rate", func(t *testing.T) {
		err := validateConfig(&Config{})
		assert.Error(t, err)
	})

	t.Run("fills defaults", func(t *testing.T) {
		cfg := Config{RequestsPerSecond: 10}
		require.NoError(t, validateConfig(&cfg))
		assert.Equal(t, 10, cfg.Burst)
		assert.Equal(t, "market:api:limiter:", cfg.KeyPrefix)
		assert.Equal(t, 0.5, cfg.LocalFallbackMultiplier)
	})
}

func TestNewWithoutRedis(t *testing.T) {
	t.Run("fails when fallback is disabled", func(t *testing.T) {
		_, err := New(Config{RequestsPerSecond: 10}, unreachableRedis())
		assert.Error(t, err)
	})

	t.Run("degrades to local fallback", func(t *testing.T) {
		l, err := New(Config{RequestsPerSecond: 10, EnableLocalFallback: true}, unreachableRedis())
		require.NoError(t, err)
		defer func() { _ = l.Close() }()

		decision, err := l.Allow(context.Background(), "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})
}

func TestLocalFallbackLimiting(t *testing.T) {
	l, err := New(Config{
		RequestsPerSecond:   100,
		Burst:               3,
		EnableLocalFallback: true,
	}, unreachableRedis())
	require.NoError(t, err)
	defer func() { _ = l.Close() }()

	ctx := context.Background()

	t.Run("burst is honored then exhausted", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			decision, err := l.Allow(ctx, "client-a")
			require.NoError(t, err)
			assert.True(t, decision.Allowed, "request %d within burst", i)
		}

		decision, err := l.Allow(ctx, "client-a")
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Greater(t, decision.RetryAfter, time.Duration(0))
	})

	t.Run("keys are limited independently", func(t *testing.T) {
		decision, err := l.Allow(ctx, "client-b")
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})
}

func TestAllowAfterClose(t *testing.T) {
	l, err := New(Config{RequestsPerSecond: 10, EnableLocalFallback: true}, unreachableRedis())
	require.NoError(t, err)
	require.NoError(t, l.Close())

	_, err = l.Allow(context.Background(), "client-a")
	assert.Error(t, err)
}
