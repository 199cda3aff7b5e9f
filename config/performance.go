package config

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// DefaultSlowRequestThreshold applies when PerformanceLogger gets a non-positive threshold.
const DefaultSlowRequestThreshold = 200 * time.Millisecond

// PerformanceLogger logs every request and flags those slower than threshold.
func PerformanceLogger(threshold time.Duration) gin.HandlerFunc {
	if threshold <= 0 {
		threshold = DefaultSlowRequestThreshold
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		log.Printf("[PERF] %s %s | Status: %d | Time: %v",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			latency)

		// Trigger endpoints wait on outbound sends, so slow here usually means the provider.
		if latency > threshold {
			log.Printf("🐌 SLOW REQUEST: %s %s took %v",
				c.Request.Method, c.Request.URL.Path, latency)
		}
	}
}
