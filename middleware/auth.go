package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/KayaErtug/bolt-app/utils"
)

// Context keys populated by Auth for downstream handlers.
const (
	ContextUserIDKey   = "auth_user_id"
	ContextUsernameKey = "auth_username"
	ContextTokenKey    = "auth_token"
)

// Auth validates the Bearer token, rejects blacklisted tokens, and stores the
// caller identity in the gin context.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			utils.Error(c, 401, 40101, "missing or malformed authorization header")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		if utils.IsTokenBlacklisted(token) {
			utils.Error(c, 401, 40103, "token has been revoked")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.Error(c, 401, 40102, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUsernameKey, claims.Username)
		c.Set(ContextTokenKey, token)
		c.Next()
	}
}

// OptionalAuth populates the caller identity when a valid token is present
// but lets anonymous requests through. Used on endpoints open to guests that
// still want to link the action to an account when one is logged in.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimPrefix(header, "Bearer ")
			if !utils.IsTokenBlacklisted(token) {
				if claims, err := utils.ParseToken(token); err == nil {
					c.Set(ContextUserIDKey, claims.UserID)
					c.Set(ContextUsernameKey, claims.Username)
					c.Set(ContextTokenKey, token)
				}
			}
		}
		c.Next()
	}
}

// UserID extracts the authenticated user id set by Auth. The second return is
// false when the request was not authenticated.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
