package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"desktop-core-service/internal/adapter/ratelimit"
	"desktop-core-service/pkg/logger"
)

// RateLimiter draws one token per request from the bucket of
// (method, route, client IP). A nil limiter disables the middleware; limiter
// errors let the request through.
func RateLimiter(l *ratelimit.Limiter, log *zap.Logger) gin.HandlerFunc {
	if l == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := fmt.Sprintf("http:%s:%s:%s", c.Request.Method, route, c.ClientIP())

		ok, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			logger.WithContext(c.Request.Context(), log).Warn("rate limiter unavailable, allowing request", zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			cfg := l.Config()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": fmt.Sprintf("Rate limit exceeded: %.2f requests/second (burst capacity: %d)", cfg.RequestsPerSecond, cfg.Burst),
			})
			return
		}
		c.Next()
	}
}
