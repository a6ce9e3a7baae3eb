package middlewares

import (
	"net/http"
	"strings"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/repository"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token, rejects blacklisted tokens and
// (if roles are given) enforces one of them.
func AuthMiddleware(secret string, tokens *repository.TokenRepository, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing or invalid token"})
			return
		}
		tokenStr := strings.TrimPrefix(h, "Bearer ")

		claims, err := utils.ParseToken(tokenStr, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}

		blacklisted, err := tokens.IsBlacklisted(tokenStr)
		if err != nil || blacklisted {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}

		c.Set("userId", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("token", tokenStr)

		if len(requiredRoles) > 0 {
			allowed := false
			for _, r := range requiredRoles {
				if claims.Role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "forbidden"})
				return
			}
		}

		c.Next()
	}
}

// OptionalAuth resolves the user from a bearer token when one is present but
// never rejects the request. Cart endpoints use it so guests (session id in
// the body) and logged-in users share the same handlers.
func OptionalAuth(secret string, tokens *repository.TokenRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h != "" && strings.HasPrefix(h, "Bearer ") {
			tokenStr := strings.TrimPrefix(h, "Bearer ")
			if claims, err := utils.ParseToken(tokenStr, secret); err == nil {
				if blacklisted, err := tokens.IsBlacklisted(tokenStr); err == nil && !blacklisted {
					c.Set("userId", claims.UserID)
					c.Set("role", claims.Role)
					c.Set("token", tokenStr)
				}
			}
		}
		c.Next()
	}
}
