package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ZdravkoRistic/qtotal/pkg/logger"
	"github.com/ZdravkoRistic/qtotal/pkg/utils"
)

// RateLimit bounds a client IP to n requests per window using a fixed-window
// Redis counter. It fails open: a nil client or a Redis error must not take
// the public contact form down with it.
func RateLimit(rdb *redis.Client, n int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := "ratelimit:contact:" + c.ClientIP()
		count, err := utils.IncrWindow(c.Request.Context(), rdb, key, window)
		if err != nil {
			logger.FromGin(c).Warn("rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if count > int64(n) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
