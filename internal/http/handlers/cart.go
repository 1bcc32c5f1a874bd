package handlers

import (
	"github.com/gin-gonic/gin"

	"glamup.com/app/internal/http/middleware"
	"glamup.com/app/internal/http/render"
	"glamup.com/app/internal/modules/cart"
	"glamup.com/app/internal/modules/catalog"
	"glamup.com/app/internal/shared/apperr"
	"glamup.com/app/pkg/view"
)

// CartHandler exposes the visitor's cart. Cart operations never fail; only
// unknown products and sizes are rejected before the cart is touched.
type CartHandler struct {
	Catalog *catalog.Service
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1,max=99"`
	Size      string `json:"size"`
}

// Quantities below 1 are clamped by the cart, so only the upper bound is checked.
type updateItemRequest struct {
	Quantity int `json:"quantity" binding:"max=99"`
}

func (h *CartHandler) Get(c *gin.Context) {
	render.OK(c, view.CartOf(middleware.Cart(c)))
}

func (h *CartHandler) Count(c *gin.Context) {
	render.OK(c, view.CartCount{Count: middleware.Cart(c).TotalItems()})
}

func (h *CartHandler) Add(c *gin.Context) {
	var in addItemRequest
	if !render.BindJSON(c, &in) {
		return
	}
	p, err := h.Catalog.Get(c.Request.Context(), in.ProductID)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	size, ok := p.ResolveSize(in.Size)
	if !ok {
		middleware.Fail(c, apperr.InvalidErr("Please choose an available size.", map[string]string{"size": "Not available for this product."}))
		return
	}

	s := middleware.Cart(c)
	s.AddItem(p, in.Quantity, size)
	render.OK(c, view.CartOf(s))
}

func (h *CartHandler) Update(c *gin.Context) {
	var in updateItemRequest
	if !render.BindJSON(c, &in) {
		return
	}
	s := middleware.Cart(c)
	s.UpdateQuantity(cart.ParseKey(c.Param("key")), in.Quantity)
	render.OK(c, view.CartOf(s))
}

func (h *CartHandler) Remove(c *gin.Context) {
	s := middleware.Cart(c)
	s.RemoveItem(cart.ParseKey(c.Param("key")))
	render.OK(c, view.CartOf(s))
}

func (h *CartHandler) Toggle(c *gin.Context) {
	s := middleware.Cart(c)
	s.ToggleCart()
	render.OK(c, view.CartOf(s))
}

func (h *CartHandler) Clear(c *gin.Context) {
	s := middleware.Cart(c)
	s.Clear()
	render.OK(c, view.CartOf(s))
}
