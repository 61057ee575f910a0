package middleware

import (
	"net/http"
	"strconv"

	"pixpoll/internal/redis"
	"pixpoll/internal/transport/httpdto"
	"pixpoll/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VoteRateLimitMiddleware throttles votes per client address. It does not
// deduplicate: every request it lets through records a vote. When redis
// fails the request is let through.
func VoteRateLimitMiddleware(limiter *redis.RateLimiter, l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := limiter.AllowVote(c.Request.Context(), c.ClientIP())
		if err != nil {
			if l != nil {
				l.Warn(c.Request.Context(), "vote rate limit check failed", zap.Error(err))
			}
			c.Next()
			return
		}

		if result.Limit > 0 {
			setRateLimitHeaders(c, result)
		}

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorBody(httpdto.CodeRateLimited, "vote rate limit exceeded"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// setRateLimitHeaders sets standard rate limit response headers
func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}
