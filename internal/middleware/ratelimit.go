package middleware

import (
	"math"
	"net/http"
	"strconv"

	"contacts_backend/internal/logger"
	"contacts_backend/internal/ratelimit"
	"contacts_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware limits requests per client IP for a single route.
// A nil limiter disables the check; limiter failures let the request through.
func RateLimitMiddleware(limiter ratelimit.Limiter, name string, rule ratelimit.Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || rule.Limit <= 0 {
			c.Next()
			return
		}

		key := name + ":" + c.ClientIP()
		res, err := limiter.Allow(c.Request.Context(), key, rule)
		if err != nil {
			logger.CtxWithError(c.Request.Context(), "rate limiter unavailable", err, "key", key)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if !res.Allowed {
			retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			logger.CtxWarn(c.Request.Context(), "rate limit exceeded", "key", key)

			appErr := apperrors.ErrRateLimitExceeded
			_ = c.Error(appErr)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":  appErr.Message,
				"detail": "Too many requests, retry in " + strconv.Itoa(retryAfter) + "s",
				"code":   appErr.Code,
			})
			return
		}
		c.Next()
	}
}
