package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bloomhq/bloom/backend/internal/logger"
)

// RequestLogger attaches a request-scoped logger to the context and emits
// one structured entry per request. The request ID is taken from the
// X-Request-ID header when the caller supplies one.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		ctx := logger.WithRequestID(c.Request.Context(), c.GetHeader("X-Request-ID"))
		ctx = logger.WithLogger(ctx, logger.Default())
		c.Request = c.Request.WithContext(ctx)

		requestID := logger.RequestIDFromContext(ctx)
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		log := logger.Ctx(ctx)
		fields := []logger.Field{
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", status),
			logger.Duration("latency", latency),
			logger.String("client_ip", c.ClientIP()),
		}

		switch {
		case status >= 500:
			log.Error("request completed", fields...)
		case status >= 400:
			log.Warn("request completed", fields...)
		default:
			log.Info("request completed", fields...)
		}
	}
}
