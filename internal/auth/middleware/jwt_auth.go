package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ranwip/pm-backend/internal/auth"
)

// TokenParser is satisfied by *auth.TokenIssuer.
type TokenParser interface {
	Parse(tokenString string) (*auth.Claims, error)
}

// JWTAuthMiddleware validates the bearer token and stores the caller's
// identity in the gin context.
func JWTAuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(auth.CtxUserID, claims.Subject)
		c.Set(auth.CtxEmail, claims.Email)
		c.Set(auth.CtxRole, claims.Role)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.EqualFold(bearerToken[:7], "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
