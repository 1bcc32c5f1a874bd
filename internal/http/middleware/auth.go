package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"glamup.com/app/internal/modules/auth"
)

const ctxKeyPrincipal = "principal"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Principal, error)
}

// Authenticate resolves the bearer token, or the session cookie when no
// header is sent. Requests without a valid token continue anonymously; the
// stale cookie is cleared.
func Authenticate(a Authenticator, cookieName string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, fromCookie := bearerToken(c), false
		if token == "" {
			if v, err := c.Cookie(cookieName); err == nil && v != "" {
				token, fromCookie = v, true
			}
		}
		if token == "" {
			c.Next()
			return
		}

		p, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			if fromCookie {
				c.SetCookie(cookieName, "", -1, "/", "", secure, true)
			}
			c.Next()
			return
		}
		c.Set(ctxKeyPrincipal, p)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func CurrentPrincipal(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(ctxKeyPrincipal)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (auth.User, bool) {
	p, ok := CurrentPrincipal(c)
	return p.User, ok
}
