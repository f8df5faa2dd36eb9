package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/openpredict/market-api/internal/api/middleware"
	"github.com/openpredict/market-api/internal/api/rest"
	"github.com/openpredict/market-api/internal/api/server"
	cacheredis "github.com/openpredict/market-api/internal/cache/redis"
	"github.com/openpredict/market-api/internal/config"
	"github.com/openpredict/market-api/internal/identity"
	"github.com/openpredict/market-api/internal/logger"
	"github.com/openpredict/market-api/internal/messaging"
	"github.com/openpredict/market-api/internal/providers/jetstream"
	"github.com/openpredict/market-api/internal/ratelimit"
	"github.com/openpredict/market-api/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "api-server",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting market API")

	// Connect to database, retrying while it comes up
	var db *gorm.DB
	connect := func() error {
		db, err = gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
		return err
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
	if err := backoff.Retry(connect, backoff.WithContext(policy, ctx)); err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store and run migrations
	dataStore := store.NewPGStore(db)
	if err := store.Migrate(db); err != nil {
		logger.FatalCtx(ctx, "Failed to run migrations", zap.Error(err))
	}

	// Connect to Redis; the read paths degrade to the store without it
	var cache *cacheredis.MarketCache
	redisClient, err := cacheredis.New(ctx, cacheredis.ClientConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		logger.WarnCtx(ctx, "Redis unavailable, running without cache", zap.Error(err))
	} else {
		defer func() { _ = redisClient.Close() }()
		cache = cacheredis.NewMarketCache(redisClient)
		logger.InfoCtx(ctx, "Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// Per-client rate limiting rides on the same Redis instance
	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled && redisClient != nil {
		limiter, err = ratelimit.New(ratelimit.Config{
			RequestsPerSecond:       cfg.RateLimit.RequestsPerSecond,
			Burst:                   cfg.RateLimit.Burst,
			KeyPrefix:               cfg.RateLimit.KeyPrefix,
			EnableLocalFallback:     cfg.RateLimit.EnableLocalFallback,
			LocalFallbackMultiplier: cfg.RateLimit.LocalFallbackMultiplier,
		}, redisClient.Underlying())
		if err != nil {
			logger.FatalCtx(ctx, "Failed to initialize rate limiter", zap.Error(err))
		}
		defer func() { _ = limiter.Close() }()
	}

	// Connect to NATS JetStream for identity event publication
	var publisher messaging.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = jetstream.NewPublisher(ctx, jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		})
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err))
		}
		defer publisher.Close()
		logger.InfoCtx(ctx, "Connected to NATS", zap.String("url", cfg.NATS.URL))
	}

	// Create identity event processor
	processor := identity.NewProcessor(dataStore, publisher)

	// Create server config
	serverConfig := server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
		},
		Webhook: rest.WebhookConfig{
			SigningSecret: cfg.Webhook.SigningSecret,
			Tolerance:     cfg.Webhook.Tolerance,
		},
	}

	// Create and start server. The cache interface holds a typed nil when
	// Redis is down, so pass nil explicitly.
	var srv *server.Server
	if cache != nil {
		srv = server.New(serverConfig, dataStore, cache, limiter, processor)
	} else {
		srv = server.New(serverConfig, dataStore, nil, limiter, processor)
	}

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	logger.Info("API server stopped")
}
