package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"boards/internal/auth"
)

const claimsContextKey = "authClaims"

// requireAuth rejects requests without a valid bearer token and stores the
// decoded claims in the request context for downstream handlers.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := s.tokens.Verify(strings.TrimPrefix(header, prefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// currentClaims returns the claims stored by requireAuth. It is only valid
// on routes behind that middleware.
func currentClaims(c *gin.Context) *auth.Claims {
	value, ok := c.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*auth.Claims)
	return claims
}
