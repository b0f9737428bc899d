package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/KayaErtug/bolt-app/config"
	"github.com/KayaErtug/bolt-app/utils"
)

// CountryFilter enforces geo access rules. Deny list has priority over the
// allow list; an empty allow list admits everyone not denied. Lookup failures
// fail open so a geo service outage never takes the API down.
func CountryFilter() gin.HandlerFunc {
	cfg := config.Get()
	denySet := toSet(cfg.DenyCountry)
	allowSet := toSet(cfg.AllowedCountry)

	return func(c *gin.Context) {
		if len(denySet) == 0 && len(allowSet) == 0 {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if utils.IsPrivateIP(ip) {
			c.Next()
			return
		}

		cc := utils.CountryForIP(ip)
		if cc == "" {
			c.Next()
			return
		}

		if _, denied := denySet[cc]; denied {
			utils.Error(c, 403, 40301, "service is not available in your region")
			c.Abort()
			return
		}
		if len(allowSet) > 0 {
			if _, allowed := allowSet[cc]; !allowed {
				utils.Error(c, 403, 40301, "service is not available in your region")
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

func toSet(list []string) map[string]struct{} {
	s := make(map[string]struct{}, len(list))
	for _, item := range list {
		s[item] = struct{}{}
	}
	return s
}
