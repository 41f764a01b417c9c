package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fuelbuddy/fuelbuddy-api/internal/constants"
	apierrors "github.com/fuelbuddy/fuelbuddy-api/internal/errors"
	"github.com/fuelbuddy/fuelbuddy-api/internal/services"
)

// RequireAuth verifies the bearer credential on protected routes and
// stores the principal's identifier in the request context.
func RequireAuth(verifier services.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Unauthenticated(c, "")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			apierrors.Unauthenticated(c, "Invalid authorization header")
			c.Abort()
			return
		}

		userID, err := verifier.Verify(parts[1])
		if err != nil {
			apierrors.Unauthenticated(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
