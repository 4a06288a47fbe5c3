package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"relay-service/internal/auth"
)

// IdentityContextKey is where the middleware stores the caller's username.
const IdentityContextKey = "identity"

// AuthMiddleware validates the Authorization header and binds the caller's
// identity to the request context.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		claims, err := auth.ValidateToken(parts[1], secret)
		if err != nil || claims.Username == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(IdentityContextKey, claims.Username)
		c.Next()
	}
}
