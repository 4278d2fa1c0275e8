package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/roam-platform/roam-server/internal/auth/jwt"
)

// ClaimsKey is the gin context key the auth middlewares store claims under
const ClaimsKey = "claims"

// JWTAuthMiddleware creates a middleware that validates admin session tokens
func JWTAuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return scopedAuth(jwtService, jwt.ScopeAdmin)
}

// Phase2AuthMiddleware creates a middleware that validates wizard session
// tokens minted by the Phase-2 gate. Admin tokens are rejected here and
// wizard tokens are rejected on admin routes; the two sessions never cross.
func Phase2AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return scopedAuth(jwtService, jwt.ScopePhase2)
}

func scopedAuth(jwtService *jwt.Service, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if claims.Scope != scope {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// GetClaims retrieves the validated claims set by the auth middlewares
func GetClaims(c *gin.Context) (*jwt.Claims, bool) {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*jwt.Claims)
	return claims, ok
}
