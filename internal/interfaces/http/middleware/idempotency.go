package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/logger"
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader lets clients retry conversions and payments safely
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// Idempotency rejects a mutating request whose Idempotency-Key was already
// used by the same organization within ttl. A key whose request failed is
// released so the client can retry it. Requests without the header, and all
// requests when store is nil, pass through.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	if store == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyConfig().TTL
	}

	return func(c *gin.Context) {
		if !isMutating(c.Request.Method) {
			c.Next()
			return
		}
		raw := c.GetHeader(IdempotencyKeyHeader)
		if raw == "" {
			c.Next()
			return
		}
		if len(raw) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeValidation, IdempotencyKeyHeader+" is too long", GetRequestID(c)))
			return
		}

		orgID, ok := GetOrgID(c)
		if !ok {
			c.Next()
			return
		}
		key := "idem:" + orgID.String() + ":" + raw
		ctx := c.Request.Context()
		log := logger.GetGinLogger(c)

		fresh, err := store.MarkProcessed(ctx, key, ttl)
		if err != nil {
			log.Error("idempotency store unavailable", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				dto.NewErrorResponse(dto.ErrCodeUnavailable, "idempotency store unavailable", GetRequestID(c)))
			return
		}
		if !fresh {
			log.Info("duplicate request rejected", zap.String("idempotency_key", raw))
			c.AbortWithStatusJSON(http.StatusConflict,
				dto.NewErrorResponseWithDetails(dto.ErrCodeConflict,
					"request with this "+IdempotencyKeyHeader+" was already processed",
					GetRequestID(c), map[string]any{"idempotency_key": raw}))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			// the request context may already be cancelled
			if err := store.Forget(context.WithoutCancel(ctx), key); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("failed to release idempotency key", zap.String("idempotency_key", raw), zap.Error(err))
			}
		}
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
