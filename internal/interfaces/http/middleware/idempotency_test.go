package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/cache"
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

type brokenStore struct{}

func (brokenStore) MarkProcessed(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("connection refused")
}
func (brokenStore) IsProcessed(context.Context, string) (bool, error) { return false, nil }
func (brokenStore) Forget(context.Context, string) error             { return nil }
func (brokenStore) Close() error                                     { return nil }

var _ shared.IdempotencyStore = brokenStore{}

func idempotentRouter(store shared.IdempotencyStore, status *int, calls *int) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), OrgContext(zap.NewNop()), Idempotency(store, time.Hour))
	handler := func(c *gin.Context) {
		*calls++
		c.JSON(*status, dto.NewSuccessResponse(gin.H{"ok": *status < 400}))
	}
	r.POST("/payments", handler)
	r.GET("/payments", handler)
	return r
}

func idempotentRequest(method string, org uuid.UUID, key string) *http.Request {
	req := httptest.NewRequest(method, "/payments", strings.NewReader(`{}`))
	req.Header.Set(OrgIDHeader, org.String())
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	return req
}

func TestIdempotency(t *testing.T) {
	orgA, orgB := uuid.New(), uuid.New()

	t.Run("repeat of a processed key is a conflict", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore(time.Minute)
		defer store.Close()
		status, calls := http.StatusCreated, 0
		r := idempotentRouter(store, &status, &calls)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, idempotentRequest(http.MethodPost, orgA, "pay-1"))
		require.Equal(t, http.StatusCreated, w.Code)

		w = httptest.NewRecorder()
		r.ServeHTTP(w, idempotentRequest(http.MethodPost, orgA, "pay-1"))
		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeEnvelope(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeConflict, resp.Error.Code)
		assert.Equal(t, 1, calls)
	})

	t.Run("keys are scoped per organization", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore(time.Minute)
		defer store.Close()
		status, calls := http.StatusCreated, 0
		r := idempotentRouter(store, &status, &calls)

		for _, org := range []uuid.UUID{orgA, orgB} {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, idempotentRequest(http.MethodPost, org, "pay-1"))
			assert.Equal(t, http.StatusCreated, w.Code)
		}
		assert.Equal(t, 2, calls)
	})

	t.Run("failed request releases the key", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore(time.Minute)
		defer store.Close()
		status, calls := http.StatusUnprocessableEntity, 0
		r := idempotentRouter(store, &status, &calls)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, idempotentRequest(http.MethodPost, orgA, "pay-2"))
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		status = http.StatusCreated
		w = httptest.NewRecorder()
		r.ServeHTTP(w, idempotentRequest(http.MethodPost, orgA, "pay-2"))
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 2, calls)
	})

	t.Run("safe methods and missing keys pass through", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore(time.Minute)
		defer store.Close()
		status, calls := http.StatusOK, 0
		r := idempotentRouter(store, &status, &calls)

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, idempotentRequest(http.MethodGet, orgA, "list-1"))
			assert.Equal(t, http.StatusOK, w.Code)
			w = httptest.NewRecorder()
			r.ServeHTTP(w, idempotentRequest(http.MethodPost, orgA, ""))
			assert.Equal(t, http.StatusOK, w.Code)
		}
		assert.Equal(t, 4, calls)
	})

	t.Run("nil store disables the check", func(t *testing.T) {
		status, calls := http.StatusCreated, 0
		r := idempotentRouter(nil, &status, &calls)
		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, idempotentRequest(http.MethodPost, orgA, "pay-3"))
			assert.Equal(t, http.StatusCreated, w.Code)
		}
	})

	t.Run("store failure is unavailable", func(t *testing.T) {
		status, calls := http.StatusCreated, 0
		r := idempotentRouter(brokenStore{}, &status, &calls)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, idempotentRequest(http.MethodPost, orgA, "pay-4"))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Zero(t, calls)
	})

	t.Run("oversized key is rejected", func(t *testing.T) {
		status, calls := http.StatusCreated, 0
		r := idempotentRouter(brokenStore{}, &status, &calls)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, idempotentRequest(http.MethodPost, orgA, strings.Repeat("k", 200)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
