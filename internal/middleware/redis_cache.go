package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CacheConfig holds configuration for the cache middleware
type CacheConfig struct {
	Enabled         bool
	DefaultDuration time.Duration
	PrefixKey       string
	// CachedPaths lists the path suffixes whose GET responses are cached
	CachedPaths []string
}

// RedisCache caches successful GET responses of the configured paths in Redis.
func RedisCache(redisClient *redis.Client, config CacheConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !config.Enabled || c.Request.Method != http.MethodGet || !isCachedPath(c.Request.URL.Path, config.CachedPaths) {
			c.Next()
			return
		}

		cacheKey := generateCacheKey(c, config.PrefixKey)
		ctx := c.Request.Context()

		cachedResponse, err := redisClient.Get(ctx, cacheKey).Bytes()
		if err == nil {
			logger.Debug("Cache hit",
				zap.String("path", c.Request.URL.Path),
				zap.String("cache_key", cacheKey))

			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", cachedResponse)
			c.Abort()
			return
		}
		if err != redis.Nil {
			logger.Warn("Cache lookup failed", zap.Error(err), zap.String("cache_key", cacheKey))
		}

		// Capture the response
		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer
		c.Header("X-Cache", "MISS")

		c.Next()

		// Only cache successful responses
		if writer.Status() != http.StatusOK {
			return
		}

		if err := redisClient.Set(ctx, cacheKey, writer.body.Bytes(), config.DefaultDuration).Err(); err != nil {
			logger.Error("Failed to set cache",
				zap.Error(err),
				zap.String("cache_key", cacheKey))
			return
		}

		logger.Debug("Cache set",
			zap.String("path", c.Request.URL.Path),
			zap.String("cache_key", cacheKey),
			zap.Duration("duration", config.DefaultDuration))
	}
}

// responseWriter captures the response body for caching
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write captures the response for caching
func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func isCachedPath(path string, cached []string) bool {
	for _, p := range cached {
		if strings.HasSuffix(path, p) {
			return true
		}
	}
	return false
}

// generateCacheKey hashes the path and the normalized query of a request
func generateCacheKey(c *gin.Context, prefix string) string {
	hash := sha256.New()
	io.WriteString(hash, c.Request.URL.Path)
	if query := c.Request.URL.Query(); len(query) > 0 {
		io.WriteString(hash, "?"+strings.ToLower(query.Encode()))
	}
	return prefix + ":" + hex.EncodeToString(hash.Sum(nil))
}
