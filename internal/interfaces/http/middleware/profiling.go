package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// Pyroscope label names attached to request profiles
const (
	ProfilingLabelRoute      = "route"
	ProfilingLabelMethod     = "method"
	ProfilingLabelController = "controller"
	ProfilingLabelOrgID      = "org_id"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	Enabled   bool
	SkipPaths []string
}

// DefaultProfilingConfig skips the probes
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:   true,
		SkipPaths: []string{"/health", "/health/live", "/health/ready"},
	}
}

// Profiling tags CPU and allocation samples taken while serving the request
// with the route, method, controller and organization. It belongs after
// OrgContext so the organization is known.
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}
		labels := profilingLabels(c)
		if len(labels) == 0 {
			c.Next()
			return
		}
		pyroscope.TagWrapper(c.Request.Context(), pyroscope.Labels(labels...), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// profilingLabels returns alternating label names and values
func profilingLabels(c *gin.Context) []string {
	labels := make([]string, 0, 8)
	if m := c.Request.Method; m != "" {
		labels = append(labels, ProfilingLabelMethod, m)
	}
	if route := c.FullPath(); route != "" {
		labels = append(labels, ProfilingLabelRoute, route)
		if ctrl := controllerFromRoute(route); ctrl != "" {
			labels = append(labels, ProfilingLabelController, ctrl)
		}
	}
	if orgID, ok := GetOrgID(c); ok {
		labels = append(labels, ProfilingLabelOrgID, orgID.String())
	}
	return labels
}

// controllerFromRoute returns the first resource segment of a route:
// "/api/v1/orders/:id/approve" gives "orders".
func controllerFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) {
			continue
		}
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			continue
		}
		return part
	}
	return ""
}

func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}
