package middleware

import (
	"strconv"
	"time"

	"repairdesk/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latency per route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		metrics.HTTPInFlight.Inc()
		start := time.Now()
		defer func() {
			metrics.HTTPInFlight.Dec()
			path := c.FullPath()
			if path == "" {
				path = "unmatched"
			}
			metrics.HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
			metrics.HTTPDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
		}()

		c.Next()
	}
}
