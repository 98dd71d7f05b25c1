package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisRateLimitConfig holds configuration for the shared rate limiter
type RedisRateLimitConfig struct {
	Enabled            bool
	RequestsPerMinute  int
	BurstSize          int
	ClientIPHeaderName string
	PrefixKey          string
}

// limit is the number of requests accepted per one minute window
func (c RedisRateLimitConfig) limit() int {
	if c.BurstSize > c.RequestsPerMinute {
		return c.BurstSize
	}
	return c.RequestsPerMinute
}

var fixedWindowScript = redis.NewScript(`
	local current = redis.call('INCR', KEYS[1])
	if current == 1 then
		redis.call('EXPIRE', KEYS[1], ARGV[1])
	end
	return current
`)

// RedisRateLimit limits requests per client with a fixed one minute window
// shared by every replica. When Redis is unreachable requests are let through.
func RedisRateLimit(redisClient *redis.Client, config RedisRateLimitConfig, logger *zap.Logger) gin.HandlerFunc {
	limit := config.limit()
	prefix := config.PrefixKey
	if prefix == "" {
		prefix = "ratelimit"
	}

	return func(c *gin.Context) {
		if !config.Enabled {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		if config.ClientIPHeaderName != "" {
			if headerIP := c.GetHeader(config.ClientIPHeaderName); headerIP != "" {
				clientIP = headerIP
			}
		}

		now := time.Now()
		count, resetTime, err := incrementWindow(c.Request.Context(), redisClient, prefix, clientIP, now)
		if err != nil {
			logger.Error("Rate limit check failed", zap.Error(err), zap.String("client_ip", clientIP))
			c.Next()
			return
		}

		remaining := limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime, 10))

		if count > limit {
			c.Header("Retry-After", strconv.FormatInt(resetTime-now.Unix(), 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Try again later.",
			})
			return
		}

		c.Next()
	}
}

// incrementWindow counts a request in the current minute and returns the count
// together with the unix time the window resets
func incrementWindow(ctx context.Context, redisClient *redis.Client, prefix, client string, now time.Time) (int, int64, error) {
	window := now.Unix() / 60
	key := fmt.Sprintf("%s:%s:%d", prefix, client, window)

	count, err := fixedWindowScript.Run(ctx, redisClient, []string{key}, 60).Int()
	if err != nil {
		return 0, 0, err
	}

	return count, (window + 1) * 60, nil
}
