package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"vertex-crm/monitoring"
)

// PrometheusMetrics records request counts and latency per route template,
// so /api/clients/:id is one series regardless of the identifier.
func PrometheusMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		duration := time.Since(start).Seconds()

		monitoring.RequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		monitoring.RequestDuration.WithLabelValues(
			c.Request.Method,
			path,
		).Observe(duration)
	}
}
