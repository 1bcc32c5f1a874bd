package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"glamup.com/app/internal/http/cartcookie"
	"glamup.com/app/internal/modules/cart"
)

const (
	ctxKeyCart   = "cart"
	ctxKeyCartID = "cart_id"
)

// CartSession attaches the visitor's cart, issuing a signed cart cookie on
// first contact. Mutating requests save the cart afterwards when a persister
// is configured.
func CartSession(codec *cartcookie.Codec, reg *cart.Registry, l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := codec.GetCartID(c)
		if !ok {
			id = cartcookie.NewID()
			codec.Set(c, id)
		}
		c.Set(ctxKeyCartID, id)
		c.Set(ctxKeyCart, reg.Get(c.Request.Context(), id))

		c.Next()

		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			return
		}
		if err := reg.Save(c.Request.Context(), id); err != nil {
			l.Warn("cart_save_failed", "request_id", GetRequestID(c), "cart_id", id, "err", err)
		}
	}
}

// Cart returns the request's cart. It is only nil outside CartSession.
func Cart(c *gin.Context) *cart.Store {
	v, _ := c.Get(ctxKeyCart)
	s, _ := v.(*cart.Store)
	return s
}

func CartID(c *gin.Context) string { return c.GetString(ctxKeyCartID) }
