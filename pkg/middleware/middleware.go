// Package middleware 提供 Gin 通用中间件（请求日志、trace、panic recover、指标、限流）
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wyfcoding/pkg/response"
	"github.com/wyfcoding/rentvsbuy/pkg/logger"
	"github.com/wyfcoding/rentvsbuy/pkg/metrics"
)

const (
	// RequestIDKey gin context 中的 request ID
	RequestIDKey = "request_id"
	// TraceIDKey gin context 中的 trace ID
	TraceIDKey = "trace_id"

	TraceIDHeader   = "X-Trace-ID"
	RequestIDHeader = "X-Request-ID"
)

// Logging 请求日志中间件，为每个请求生成 request ID 并透传 trace ID
func Logging(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Set(TraceIDKey, traceID)
		c.Header(RequestIDHeader, requestID)
		c.Header(TraceIDHeader, traceID)

		ctx := logger.ContextWithTraceID(c.Request.Context(), traceID)
		ctx = logger.ContextWithRequestID(ctx, requestID)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		logger.From(ctx, l).InfoContext(ctx, "HTTP request completed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"client_ip", c.ClientIP(),
			"status_code", c.Writer.Status(),
			"response_size", c.Writer.Size(),
			"duration", time.Since(start),
		)
	}
}

// Recovery panic 恢复中间件
func Recovery(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				ctx := c.Request.Context()
				logger.From(ctx, l).ErrorContext(ctx, "HTTP request panicked", "panic", err)
				response.ErrorWithStatus(c, http.StatusInternalServerError, "internal server error", "")
				c.Abort()
			}
		}()
		c.Next()
	}
}

// Metrics 请求指标中间件，按路由模板聚合
func Metrics(collector metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		collector.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start).Seconds())
	}
}
