package handlers

import (
	"github.com/gin-gonic/gin"

	"glamup.com/app/internal/http/middleware"
	"glamup.com/app/internal/http/render"
	"glamup.com/app/internal/modules/orders"
	"glamup.com/app/pkg/view"
)

type OrdersHandler struct {
	Svc *orders.Service
}

func (h *OrdersHandler) List(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	list, err := h.Svc.ListForUser(c.Request.Context(), u.ID)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, gin.H{"orders": view.OrdersOf(list)})
}

func (h *OrdersHandler) Get(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	o, err := h.Svc.GetForUser(c.Request.Context(), u.ID, c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, gin.H{"order": view.OrderOf(o)})
}
