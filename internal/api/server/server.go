package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/openpredict/market-api/internal/api/executor"
	"github.com/openpredict/market-api/internal/api/middleware"
	"github.com/openpredict/market-api/internal/api/rest"
	"github.com/openpredict/market-api/internal/identity"
	"github.com/openpredict/market-api/internal/logger"
	"github.com/openpredict/market-api/internal/ratelimit"
	"github.com/openpredict/market-api/internal/store"
)

// Config holds the server configuration
type Config struct {
	Debug        bool
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	Auth    middleware.AuthConfig
	Webhook rest.WebhookConfig
}

// Server wraps the HTTP server
type Server struct {
	config     Config
	store      store.Store
	cache      executor.MarketCache
	limiter    *ratelimit.Limiter
	processor  *identity.Processor
	httpServer *http.Server
}

// New creates a new API server. The cache and limiter may be nil when
// Redis is not configured.
func New(cfg Config, store store.Store, cache executor.MarketCache, limiter *ratelimit.Limiter, processor *identity.Processor) *Server {
	return &Server{
		config:    cfg,
		store:     store,
		cache:     cache,
		limiter:   limiter,
		processor: processor,
	}
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Setup middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS())
	if s.limiter != nil {
		router.Use(middleware.RateLimit(s.limiter))
	}

	// Create executor and REST handler
	exec := executor.NewExecutor(s.store, s.cache)
	restHandler := rest.NewHandler(exec, s.processor, s.config.Webhook)

	// Setup REST routes
	rest.SetupRoutes(router, restHandler, s.config.Auth)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
