package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/KayaErtug/bolt-app/config"
	"github.com/KayaErtug/bolt-app/utils"
)

// AdminOnly allows only usernames listed in the admin config. Must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(ContextUsernameKey)
		username, _ := v.(string)
		if !ok || username == "" || !utils.ContainsString(config.Get().AdminUsernames, username) {
			utils.Error(c, 403, 40310, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
