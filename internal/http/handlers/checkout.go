package handlers

import (
	"github.com/gin-gonic/gin"

	"glamup.com/app/internal/http/middleware"
	"glamup.com/app/internal/http/render"
	"glamup.com/app/internal/modules/checkout"
	"glamup.com/app/pkg/view"
)

type CheckoutHandler struct {
	Svc *checkout.Service
}

// Place handles POST /api/checkout {address, paymentMethod}.
func (h *CheckoutHandler) Place(c *gin.Context) {
	var form checkout.Form
	if !render.DecodeJSON(c, &form) {
		return
	}
	u, _ := middleware.CurrentUser(c)
	o, err := h.Svc.PlaceOrder(c.Request.Context(), checkout.PlaceOrderInput{
		User: u,
		Cart: middleware.Cart(c),
		Form: form,
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.Created(c, gin.H{"order": view.OrderOf(o), "cart": view.CartOf(middleware.Cart(c))})
}
