package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// userIDKey is the gin context key holding the authenticated user's ID.
const userIDKey = "userID"

// identity reads the caller's user ID from the X-User-ID header. The header
// is set by the authenticating proxy in front of this service; an absent
// header means an anonymous caller.
func identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(userIDKey, c.GetHeader("X-User-ID"))
		c.Next()
	}
}

// callerID returns the authenticated user's ID, empty for anonymous callers.
func callerID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// cors allows browser clients on other origins to reach the API.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, X-User-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// requestLogger logs one line per request.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
