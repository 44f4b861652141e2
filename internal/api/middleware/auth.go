package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/unifiedui/admin-console/internal/domain/errors"
)

// AuthMiddleware guards the console API with a shared bearer key.
type AuthMiddleware struct {
	apiKey string
}

// NewAuthMiddleware creates a new AuthMiddleware. An empty key disables the check.
func NewAuthMiddleware(apiKey string) *AuthMiddleware {
	return &AuthMiddleware{
		apiKey: apiKey,
	}
}

// Authenticate returns a gin middleware that validates the Bearer token against the console key.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.apiKey == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "missing authorization header")
			return
		}

		// Extract Bearer token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			unauthorized(c, "invalid authorization header format")
			return
		}

		if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(parts[1])), []byte(m.apiKey)) != 1 {
			unauthorized(c, "invalid console key")
			return
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	abortWithError(c, http.StatusUnauthorized, ErrorResponse{Code: domainerrors.ErrCodeUnauthorized, Message: message})
}
