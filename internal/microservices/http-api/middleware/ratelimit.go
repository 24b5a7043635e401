package middleware

import (
	"net/http"

	"reviewhub/internal/metrics"
	"reviewhub/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit rejects requests over the limiter's budget with 429, keyed by
// route and client IP.
func RateLimit(limiter ratelimit.Limiter, route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter.Allow(c.Request.Context(), route+":"+c.ClientIP()) {
			c.Next()
			return
		}
		metrics.RateLimited.WithLabelValues(route).Inc()
		LoggerFrom(c).Warn("rate_limited", "route", route, "client_ip", c.ClientIP())
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
	}
}
