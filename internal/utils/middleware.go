package utils

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ZapLoggerMiddleware logs every request with method, path, status and
// latency.
func ZapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	requestLogger := logger.Named("HTTP")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		requestLogger.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("clientIP", c.ClientIP()))
	}
}
