package middlewares

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const rateLimitKeyPrefix = "ratelimit:"

// RateLimitMiddleware ограничивает число запросов с одного IP фиксированным окном.
// Счетчик окна хранится в Redis (INCR + EXPIRE). Если Redis недоступен, запрос пропускается.
//
// Параметры:
//   - rdb: клиент Redis
//   - limit: максимум запросов за окно
//   - window: длительность окна
//   - logger: логгер для ошибок Redis
func RateLimitMiddleware(rdb redis.Cmdable, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		windowStart := now.Truncate(window)
		reset := windowStart.Add(window)
		key := fmt.Sprintf("%s%s:%s:%d", rateLimitKeyPrefix, c.FullPath(), c.ClientIP(), windowStart.Unix())

		pipe := rdb.TxPipeline()
		incr := pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, window)
		if _, err := pipe.Exec(c.Request.Context()); err != nil {
			logger.Warn("rate limit unavailable", zap.Error(err))
			c.Next()
			return
		}

		count := incr.Val()
		remaining := max(int64(limit)-count, 0)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(time.Until(reset).Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
