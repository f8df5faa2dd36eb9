package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/openpredict/market-api/internal/logger"
)

// Response is the JSON envelope wrapping every catalog payload
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// respondOK responds with a successful envelope
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// respondNotFound responds with a not found error
func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Response{Success: false, Error: message})
}

// respondInternalError responds with a fixed message and logs the cause.
// Internal error detail never reaches the response body.
func respondInternalError(c *gin.Context, err error, message string) {
	logger.ErrorCtx(c.Request.Context(), err,
		zap.String("path", c.Request.URL.Path))
	c.JSON(http.StatusInternalServerError, Response{Success: false, Error: message})
}
