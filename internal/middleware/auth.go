package middleware

import (
	"net/http"
	"strings"

	"spacebook/internal/pkg/response"

	jwtsvc "spacebook/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// JWTAuth requires a valid bearer token and puts user_id/role into the
// context. Identity itself is managed by an external service; the engine
// only trusts the claims.
func JWTAuth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromHeader(c, jwt)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// OptionalAuth parses the token when present but lets anonymous requests
// through. Booking creation accepts guests, so it cannot demand a token.
func OptionalAuth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := claimsFromHeader(c, jwt); ok {
			c.Set("user_id", claims.UserID)
			c.Set("role", claims.Role)
		}
		c.Next()
	}
}

func claimsFromHeader(c *gin.Context, jwt *jwtsvc.Service) (*jwtsvc.Claims, bool) {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return nil, false
	}
	tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	if tokenStr == "" {
		return nil, false
	}
	claims, err := jwt.ValidateToken(tokenStr)
	if err != nil {
		return nil, false
	}
	return claims, true
}
