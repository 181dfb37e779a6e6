package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"shortly/config"
	"shortly/internal/jwt"
)

// OptionalJWTAuth attaches the caller identity when a valid token is present
// and lets the request through untouched otherwise.
func OptionalJWTAuth(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := jwt.ParseToken(tokenStr, cfg.Secret)
			if err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("user_email", claims.Email)
			}
		}
		c.Next()
	}
}
