package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestProfiling(t *testing.T) {
	orgID := uuid.New()

	t.Run("request context carries pprof labels", func(t *testing.T) {
		got := map[string]string{}
		r := gin.New()
		r.Use(RequestID(), OrgContext(zap.NewNop()), Profiling(DefaultProfilingConfig()))
		r.GET("/api/v1/invoices/:id", func(c *gin.Context) {
			pprof.ForLabels(c.Request.Context(), func(k, v string) bool {
				got[k] = v
				return true
			})
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/"+uuid.NewString(), nil)
		req.Header.Set(OrgIDHeader, orgID.String())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]string{
			ProfilingLabelMethod:     http.MethodGet,
			ProfilingLabelRoute:      "/api/v1/invoices/:id",
			ProfilingLabelController: "invoices",
			ProfilingLabelOrgID:      orgID.String(),
		}, got)
	})

	t.Run("skipped paths and disabled config add no labels", func(t *testing.T) {
		for _, mw := range []gin.HandlerFunc{
			Profiling(DefaultProfilingConfig()),
			Profiling(ProfilingConfig{Enabled: false}),
		} {
			labelled := false
			r := gin.New()
			r.Use(mw)
			r.GET("/health", func(c *gin.Context) {
				pprof.ForLabels(c.Request.Context(), func(string, string) bool {
					labelled = true
					return false
				})
				c.Status(http.StatusOK)
			})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.False(t, labelled)
		}
	})
}

func TestControllerFromRoute(t *testing.T) {
	tests := map[string]string{
		"/api/v1/orders/:id/approve":    "orders",
		"/api/v1/gst/summary/export":    "gst",
		"/api/v2/products/:id/stock":    "products",
		"/health":                       "health",
		"/api/v1":                       "",
		"":                              "",
		"/api/v1/:id":                   "",
		"/api/v1/stock/movements":       "stock",
		"/api/V1/customers/:id/ledger":  "customers",
		"/api/version/customers/:id":    "version",
		"/api/v1/payments/:id/cancel":   "payments",
		"/api/v1/batches/*filepath":     "batches",
		"/api/v1/invoices/:id/download": "invoices",
	}
	for route, want := range tests {
		assert.Equal(t, want, controllerFromRoute(route), route)
	}
}
