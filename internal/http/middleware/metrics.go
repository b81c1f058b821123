package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-onboarding/internal/observability"
)

// probe routes are scraped constantly and would drown the API latency series.
var unmeasured = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

// Metrics records per-route request counts, latency and in-flight requests.
// Unmatched paths share one "unmatched" label so scanners cannot blow up
// label cardinality.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if unmeasured[route] {
			c.Next()
			return
		}
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		if route == "" {
			route = "unmatched"
		}
		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
