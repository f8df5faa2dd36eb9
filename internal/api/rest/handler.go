package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/openpredict/market-api/internal/api/executor"
	"github.com/openpredict/market-api/internal/api/middleware"
	"github.com/openpredict/market-api/internal/domain"
	"github.com/openpredict/market-api/internal/identity"
	"github.com/openpredict/market-api/internal/logger"
)

// Webhook endpoint response bodies. These are plain text, not the JSON
// envelope used by the catalog endpoints; clients depend on the asymmetry.
const (
	webhookSuccessBody = "Webhook processed successfully"
	webhookErrorBody   = "Error processing webhook"
)

// WebhookConfig holds the identity webhook verification settings
type WebhookConfig struct {
	// SigningSecret is the endpoint secret; verification is skipped when empty
	SigningSecret string
	// Tolerance bounds the accepted delivery-timestamp skew
	Tolerance time.Duration
}

// Handler defines the interface for REST API handlers
type Handler interface {
	// IdentityWebhook consumes identity-provider lifecycle events
	// POST /api/v1/webhooks/identity
	IdentityWebhook(c *gin.Context)

	// ListQuestions retrieves a page of markets
	// GET /api/v1/questions?page=<page>&limit=<limit>&category=<category>&status=<status>&search=<search>&sortBy=<field>&sortOrder=<asc|desc>
	ListQuestions(c *gin.Context)

	// GetQuestion retrieves one market with holdings and derived statistics
	// GET /api/v1/questions/:id
	GetQuestion(c *gin.Context)

	// GetPriceHistory reconstructs the YES/NO price series for one market
	// GET /api/v1/questions/:id/price-history?timeframe=<1h|1d|7d|30d>&interval=<interval>
	GetPriceHistory(c *gin.Context)

	// GetOrderBook aggregates pending orders into buy/sell ladders per side
	// GET /api/v1/questions/:id/order-book
	GetOrderBook(c *gin.Context)

	// GetCurrentUser retrieves the synced user for the authenticated subject
	// GET /api/v1/users/me
	GetCurrentUser(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor   executor.Executor
	processor  *identity.Processor
	webhookCfg WebhookConfig
	now        func() time.Time
}

// NewHandler creates a new REST API handler
func NewHandler(exec executor.Executor, processor *identity.Processor, webhookCfg WebhookConfig) Handler {
	return &handler{
		executor:   exec,
		processor:  processor,
		webhookCfg: webhookCfg,
		now:        time.Now,
	}
}

// IdentityWebhook verifies and processes one identity-provider delivery.
// Every failure collapses to a 400 text response; the cause is logged only.
func (h *handler) IdentityWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		logger.WarnCtx(c.Request.Context(), "Failed to read webhook body", zap.Error(err))
		c.String(http.StatusBadRequest, webhookErrorBody)
		return
	}

	deliveryID := c.GetHeader("svix-id")
	if h.webhookCfg.SigningSecret != "" {
		headers := identity.SignatureHeaders{
			ID:        deliveryID,
			Timestamp: c.GetHeader("svix-timestamp"),
			Signature: c.GetHeader("svix-signature"),
		}
		if err := identity.VerifySignature(h.webhookCfg.SigningSecret, headers, body, h.webhookCfg.Tolerance, h.now()); err != nil {
			logger.WarnCtx(c.Request.Context(), "Webhook signature verification failed",
				zap.Error(err),
				zap.String("delivery_id", deliveryID))
			c.String(http.StatusBadRequest, webhookErrorBody)
			return
		}
	}

	var envelope identity.Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		logger.WarnCtx(c.Request.Context(), "Malformed webhook payload", zap.Error(err))
		c.String(http.StatusBadRequest, webhookErrorBody)
		return
	}

	if err := h.processor.Process(c.Request.Context(), deliveryID, &envelope, body); err != nil {
		c.String(http.StatusBadRequest, webhookErrorBody)
		return
	}

	c.String(http.StatusOK, webhookSuccessBody)
}

// ListQuestions retrieves a page of markets with pagination metadata
func (h *handler) ListQuestions(c *gin.Context) {
	filter := ParseListQuestionsQuery(c)

	data, err := h.executor.ListQuestions(c.Request.Context(), filter)
	if err != nil {
		respondInternalError(c, err, "Failed to fetch questions")
		return
	}

	respondOK(c, data)
}

// GetQuestion retrieves one market with holdings and derived statistics
func (h *handler) GetQuestion(c *gin.Context) {
	data, err := h.executor.GetQuestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			respondNotFound(c, "Question not found")
			return
		}
		respondInternalError(c, err, "Failed to fetch question")
		return
	}

	respondOK(c, data)
}

// GetPriceHistory reconstructs the YES/NO price series for one market
func (h *handler) GetPriceHistory(c *gin.Context) {
	params := ParsePriceHistoryQuery(c)

	data, err := h.executor.GetPriceHistory(c.Request.Context(), c.Param("id"), params.Timeframe, params.Interval)
	if err != nil {
		respondInternalError(c, err, "Failed to fetch price history")
		return
	}

	respondOK(c, data)
}

// GetOrderBook aggregates pending orders into buy/sell ladders per side
func (h *handler) GetOrderBook(c *gin.Context) {
	book, err := h.executor.GetOrderBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "Failed to fetch order book")
		return
	}

	respondOK(c, book)
}

// GetCurrentUser retrieves the synced user for the authenticated subject
func (h *handler) GetCurrentUser(c *gin.Context) {
	subject := c.GetString(string(middleware.AUTH_SUBJECT_KEY))
	if subject == "" {
		respondNotFound(c, "User not found")
		return
	}

	user, err := h.executor.GetCurrentUser(c.Request.Context(), subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondNotFound(c, "User not found")
			return
		}
		respondInternalError(c, err, "Failed to fetch user")
		return
	}

	respondOK(c, user)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
