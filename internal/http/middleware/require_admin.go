package middleware

import (
	"github.com/gin-gonic/gin"

	"glamup.com/app/internal/shared/apperr"
)

// RequireAdmin answers 401 for anonymous requests and 403 for non-admins.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			Fail(c, apperr.UnauthorizedErr("Please log in to continue."))
			return
		}
		if !u.IsAdmin() {
			Fail(c, apperr.ForbiddenErr("Admin access required."))
			return
		}
		c.Next()
	}
}
