package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func setupTestTracer(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })
	return sr, tp
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	return attrs
}

func tracedRouter(tp *sdktrace.TracerProvider, status int) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), TracingWithConfig(TracingConfig{
		ServiceName:    "test-service",
		Enabled:        true,
		TracerProvider: tp,
	}), SpanErrorMarker(), OrgContext(zap.NewNop()), SpanAttributes())
	r.GET("/api/v1/orders/:id", func(c *gin.Context) {
		if status >= http.StatusBadRequest {
			c.Set(ErrorCodeKey, "STATE")
		}
		c.Status(status)
	})
	return r
}

func TestTracingWithConfig(t *testing.T) {
	t.Run("disabled records nothing", func(t *testing.T) {
		sr, _ := setupTestTracer(t)
		r := gin.New()
		r.Use(TracingWithConfig(TracingConfig{Enabled: false}))
		r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, sr.Ended())
	})

	t.Run("span carries caller identity", func(t *testing.T) {
		sr, tp := setupTestTracer(t)
		orgID, userID := uuid.New(), uuid.New()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+uuid.NewString(), nil)
		req.Header.Set(OrgIDHeader, orgID.String())
		req.Header.Set(UserIDHeader, userID.String())
		req.Header.Set(RequestIDHeader, "req-9")
		w := httptest.NewRecorder()
		tracedRouter(tp, http.StatusOK).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Contains(t, spans[0].Name(), "/api/v1/orders/:id")
		attrs := spanAttrs(spans[0])
		assert.Equal(t, orgID.String(), attrs["org_id"].AsString())
		assert.Equal(t, userID.String(), attrs["user_id"].AsString())
		assert.Equal(t, "req-9", attrs["request_id"].AsString())
		assert.NotEqual(t, codes.Error, spans[0].Status().Code)
	})
}

func TestSpanErrorMarker(t *testing.T) {
	tests := []struct {
		status   int
		wantCode codes.Code
	}{
		{http.StatusOK, codes.Unset},
		{http.StatusUnprocessableEntity, codes.Error},
		{http.StatusInternalServerError, codes.Error},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			sr, tp := setupTestTracer(t)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+uuid.NewString(), nil)
			req.Header.Set(OrgIDHeader, uuid.NewString())
			w := httptest.NewRecorder()
			tracedRouter(tp, tt.status).ServeHTTP(w, req)

			spans := sr.Ended()
			require.Len(t, spans, 1)
			if tt.wantCode == codes.Error {
				assert.Equal(t, codes.Error, spans[0].Status().Code)
				assert.Equal(t, "STATE", spanAttrs(spans[0])["error.code"].AsString())
			} else {
				assert.NotEqual(t, codes.Error, spans[0].Status().Code)
			}
		})
	}

	t.Run("no active span", func(t *testing.T) {
		r := gin.New()
		r.Use(SpanErrorMarker(), SpanAttributes())
		r.GET("/test", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
