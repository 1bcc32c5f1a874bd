package middleware

import (
	"github.com/gin-gonic/gin"

	"glamup.com/app/internal/shared/apperr"
)

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentPrincipal(c); !ok {
			Fail(c, apperr.UnauthorizedErr("Please log in to continue."))
			return
		}
		c.Next()
	}
}
