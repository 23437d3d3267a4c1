package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/logger"
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/dto"
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Pinger checks a backing service
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function such as (*sql.DB).PingContext to Pinger
type PingerFunc func(ctx context.Context) error

// Ping calls f(ctx)
func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler reports whether the API can reach its database
type HealthHandler struct {
	BaseHandler
	db      Pinger
	timeout time.Duration
}

// HealthResponse is the body of the health check
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{
		db:      db,
		timeout: 2 * time.Second,
	}
}

// Check godoc
// @ID           healthCheck
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=HealthResponse}
// @Failure      503 {object} dto.Response
// @Router       /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.GetGinLogger(c).Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponseWithDetails(
			dto.ErrCodeUnavailable, "database unreachable", middleware.GetRequestID(c),
			HealthResponse{Status: "unhealthy", Database: "disconnected"},
		))
		return
	}
	h.Success(c, HealthResponse{Status: "healthy", Database: "connected"})
}
