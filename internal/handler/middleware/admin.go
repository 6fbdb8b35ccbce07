package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"innercloset/gatekeeper/pkg/response"
)

// AdminAuth admits only the session subjects listed in admin.user_ids. An
// empty list closes the admin API entirely. Runs after Session.
func AdminAuth(adminUserIDs []string, logger *zap.Logger) gin.HandlerFunc {
	admins := make(map[string]bool, len(adminUserIDs))
	for _, id := range adminUserIDs {
		if id != "" {
			admins[id] = true
		}
	}

	return func(c *gin.Context) {
		claims, ok := SessionClaims(c)
		if !ok {
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}
		if !admins[claims.Subject] {
			logger.Warn("admin access denied",
				zap.String("user_id", claims.Subject),
				zap.String("path", c.FullPath()),
			)
			response.Forbidden(c, "forbidden")
			c.Abort()
			return
		}
		c.Next()
	}
}
