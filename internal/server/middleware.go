package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dmagro/blockscan/internal/metrics"
)

// Logger logs every request through zerolog at debug level.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		var errorMessage string
		if len(c.Errors) > 0 {
			errorMessage = c.Errors.String()
		}

		log.Debug().
			Str("path", path).
			Str("raw", raw).
			Int("status", c.Writer.Status()).
			Str("method", c.Request.Method).
			Str("ip", c.ClientIP()).
			Dur("latency", time.Since(start)).
			Str("error", errorMessage).
			Msg("incoming request")
	}
}

// Prometheus records request counts and latency per route template.
func Prometheus() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		// unmatched routes have no template
		if path == "" {
			return
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
