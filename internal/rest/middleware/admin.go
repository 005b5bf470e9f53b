package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulalivre/aulalivre/internal/logger"
	"github.com/aulalivre/aulalivre/internal/types"
)

// AdminOnlyMiddleware rejects authenticated non-admin users with 403.
// It must run after AuthenticateMiddleware.
func AdminOnlyMiddleware(logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		role := types.GetUserRole(ctx)

		if role != types.UserRoleAdmin {
			logger.Debugw("forbidden, admin role required",
				"user_id", types.GetUserID(ctx),
				"role", role,
			)
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "message": "admin role required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
