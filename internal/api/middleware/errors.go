package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/unifiedui/admin-console/internal/domain/errors"
)

// ErrorMiddleware turns panics into internal errors.
type ErrorMiddleware struct{}

// NewErrorMiddleware creates a new ErrorMiddleware.
func NewErrorMiddleware() *ErrorMiddleware {
	return &ErrorMiddleware{}
}

// Recovery returns a gin middleware that recovers from panics.
func (m *ErrorMiddleware) Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger := GetRequestLogger(c)
				logger.Error().
					Interface("panic", recovered).
					Str("route", c.FullPath()).
					Msg("panic recovered")

				abortWithError(c, http.StatusInternalServerError, ErrorResponse{
					Code:    domainerrors.ErrCodeInternal,
					Message: "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// ErrorResponse is the body of every error the API answers outside a console result.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// HandleError answers err. Domain errors keep their status and code; anything else is
// logged and hidden behind an internal error.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	if domainErr, ok := domainerrors.GetDomainError(err); ok {
		abortWithError(c, domainErr.HTTPStatus, ErrorResponse{
			Code:    domainErr.Code,
			Message: domainErr.Message,
			Details: domainErr.Details,
		})
		return
	}

	logger := GetRequestLogger(c)
	logger.Error().Err(err).Msg("unhandled error")
	abortWithError(c, http.StatusInternalServerError, ErrorResponse{
		Code:    domainerrors.ErrCodeInternal,
		Message: "internal server error",
	})
}

// NotFound returns a 404 handler.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, ErrorResponse{
			Code:    domainerrors.ErrCodeNotFound,
			Message: "resource not found",
			Details: c.Request.URL.Path,
		})
	}
}

// MethodNotAllowed returns a 405 handler.
func MethodNotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		abortWithError(c, http.StatusMethodNotAllowed, ErrorResponse{
			Code:    "METHOD_NOT_ALLOWED",
			Message: "method not allowed",
			Details: c.Request.Method,
		})
	}
}

func abortWithError(c *gin.Context, status int, body ErrorResponse) {
	SetOutcome(c, "", body.Code)
	c.AbortWithStatusJSON(status, body)
}
