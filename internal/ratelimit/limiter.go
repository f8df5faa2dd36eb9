package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/openpredict/market-api/internal/logger"
)

// Config holds the rate limiter settings
type Config struct {
	// RequestsPerSecond is the sustained per-key request rate
	RequestsPerSecond int
	// Burst is the short-term allowance above the sustained rate.
	// Defaults to RequestsPerSecond when zero.
	Burst int
	// KeyPrefix namespaces the limiter's Redis keys
	KeyPrefix string
	// EnableLocalFallback keeps limiting in-process when Redis is down
	EnableLocalFallback bool
	// LocalFallbackMultiplier scales the local fallback rate. With several
	// replicas sharing one budget each instance should only take a fraction.
	LocalFallbackMultiplier float64
}

// Decision is the outcome of a single limit check
type Decision struct {
	// Allowed reports whether the request may proceed
	Allowed bool
	// RetryAfter is how long the caller should wait before retrying,
	// only meaningful when Allowed is false
	RetryAfter time.Duration
}

// Limiter enforces a per-key request rate backed by Redis, with an
// optional in-process fallback when Redis is unreachable. Keys are
// typically client IPs.
type Limiter struct {
	config         Config
	distributed    *redis_rate.Limiter
	redis          *redis.Client
	redisAvailable atomic.Bool
	closed         atomic.Bool
	closeOnce      sync.Once

	mu     sync.Mutex
	locals map[string]*rate.Limiter
}

// New creates a rate limiter. The Redis client is probed once up front;
// availability is re-checked in the background afterwards.
func New(cfg Config, rc *redis.Client) (*Limiter, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisAvailable := true
	if err := rc.Ping(ctx).Err(); err != nil {
		redisAvailable = false
		if !cfg.EnableLocalFallback {
			return nil, fmt.Errorf("redis unavailable and fallback disabled: %w", err)
		}
		logger.Warn("Redis unavailable, rate limiting falls back to local", zap.Error(err))
	}

	l := &Limiter{
		config:      cfg,
		distributed: redis_rate.NewLimiter(rc),
		redis:       rc,
		locals:      make(map[string]*rate.Limiter),
	}
	l.redisAvailable.Store(redisAvailable)

	go l.monitorRedisHealth()

	logger.Info("Rate limiter initialized",
		zap.Int("requests_per_second", cfg.RequestsPerSecond),
		zap.Int("burst", cfg.Burst),
		zap.Bool("local_fallback", cfg.EnableLocalFallback),
	)

	return l, nil
}

// Allow checks whether a request under the given key may proceed now.
// It never blocks; callers turn a denial into a 429 with RetryAfter.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	if l.closed.Load() {
		return Decision{}, fmt.Errorf("limiter is closed")
	}

	if l.redisAvailable.Load() {
		decision, err := l.tryDistributedLimit(ctx, key)
		if err != nil {
			if ctx.Err() != nil {
				return Decision{}, ctx.Err()
			}

			// Redis error, mark unavailable and fall back to local if enabled
			l.redisAvailable.Store(false)

			if !l.config.EnableLocalFallback {
				return Decision{}, fmt.Errorf("redis rate limiter unavailable: %w", err)
			}

			logger.Warn("Redis rate limiter error, falling back to local",
				zap.String("key", key),
				zap.Error(err),
			)
		} else {
			return decision, nil
		}
	}

	return l.tryLocalLimit(key), nil
}

func (l *Limiter) tryDistributedLimit(ctx context.Context, key string) (Decision, error) {
	res, err := l.distributed.Allow(ctx, l.config.KeyPrefix+key, redis_rate.Limit{
		Rate:   l.config.RequestsPerSecond,
		Burst:  l.config.Burst,
		Period: time.Second,
	})
	if err != nil {
		return Decision{}, err
	}

	if res.Allowed == 0 {
		logger.Debug("Rate limit exceeded",
			zap.String("key", key),
			zap.Duration("retry_after", res.RetryAfter),
			zap.Int("remaining", res.Remaining),
		)
		return Decision{Allowed: false, RetryAfter: res.RetryAfter}, nil
	}

	return Decision{Allowed: true}, nil
}

func (l *Limiter) tryLocalLimit(key string) Decision {
	l.mu.Lock()
	limiter, ok := l.locals[key]
	if !ok {
		localRate := max(float64(l.config.RequestsPerSecond)*l.config.LocalFallbackMultiplier, 1.0)
		limiter = rate.NewLimiter(rate.Limit(localRate), l.config.Burst)
		l.locals[key] = limiter
	}
	l.mu.Unlock()

	if limiter.Allow() {
		return Decision{Allowed: true}
	}
	return Decision{Allowed: false, RetryAfter: time.Second}
}

// monitorRedisHealth periodically re-probes Redis so a recovered instance
// resumes distributed limiting without a restart
func (l *Limiter) monitorRedisHealth() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		if l.closed.Load() {
			return
		}

		<-ticker.C

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := l.redis.Ping(ctx).Err()
		cancel()

		redisAvailable := err == nil
		wasAvailable := l.redisAvailable.Load()
		l.redisAvailable.Store(redisAvailable)

		if !wasAvailable && redisAvailable {
			logger.Info("Redis connection restored, resuming distributed rate limiting")
			// Local fallback state is stale once Redis takes over again
			l.mu.Lock()
			l.locals = make(map[string]*rate.Limiter)
			l.mu.Unlock()
		}
	}
}

// Close stops the limiter. The Redis client is owned by the caller and is
// not closed here.
func (l *Limiter) Close() error {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
	})
	return nil
}

// validateConfig validates and sets defaults for the configuration
func validateConfig(cfg *Config) error {
	if cfg.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive")
	}

	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RequestsPerSecond
	}

	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "market:api:limiter:"
	}

	if cfg.LocalFallbackMultiplier <= 0 {
		cfg.LocalFallbackMultiplier = 0.5
	}

	return nil
}
