// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const (
	ctxKeyLogger    = "console.logger"
	ctxKeyRequestID = "console.request_id"
	ctxKeyAction    = "console.action"
	ctxKeyErrorCode = "console.error_code"
)

// LoggingMiddleware handles request logging.
type LoggingMiddleware struct {
	logger zerolog.Logger
}

// NewLoggingMiddleware creates a new LoggingMiddleware.
func NewLoggingMiddleware() *LoggingMiddleware {
	return NewLoggingMiddlewareWithLogger(log.Logger)
}

// NewLoggingMiddlewareWithLogger creates a new LoggingMiddleware with a custom logger.
func NewLoggingMiddlewareWithLogger(logger zerolog.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger: logger.With().Str("component", "http").Logger(),
	}
}

// Logger returns a gin middleware that writes one line per request, naming the console
// action it ran and the error code it answered with.
func (m *LoggingMiddleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		event := m.logger.Info()
		switch {
		case status >= 500:
			event = m.logger.Error()
		case status >= 400:
			event = m.logger.Warn()
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		event = event.
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("route", route).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP())

		if action := c.GetString(ctxKeyAction); action != "" {
			event = event.Str("action", action)
		}
		if code := c.GetString(ctxKeyErrorCode); code != "" {
			event = event.Str("error_code", code)
		}

		event.Msg("console request")
	}
}

// RequestLogger assigns the request id and a request-scoped logger.
func (m *LoggingMiddleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(ctxKeyRequestID, requestID)
		c.Header(RequestIDHeader, requestID)

		requestLogger := m.logger.With().Str("request_id", requestID).Logger()
		c.Set(ctxKeyLogger, &requestLogger)

		c.Next()
	}
}

// SetOutcome records the console action a request ran and, when it failed, the error code.
func SetOutcome(c *gin.Context, action, errorCode string) {
	if action != "" {
		c.Set(ctxKeyAction, action)
	}
	if errorCode != "" {
		c.Set(ctxKeyErrorCode, errorCode)
	}
}

// GetRequestLogger retrieves the request-scoped logger from context.
func GetRequestLogger(c *gin.Context) *zerolog.Logger {
	if v, exists := c.Get(ctxKeyLogger); exists {
		if logger, ok := v.(*zerolog.Logger); ok {
			return logger
		}
	}
	return &log.Logger
}

// GetRequestID retrieves the request ID from context.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ctxKeyRequestID)
}
