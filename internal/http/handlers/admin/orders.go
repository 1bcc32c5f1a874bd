package admin

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"glamup.com/app/internal/http/middleware"
	"glamup.com/app/internal/http/render"
	"glamup.com/app/internal/modules/orders"
	"glamup.com/app/pkg/view"
)

const pageSize = 30

type OrdersHandler struct {
	Svc *orders.AdminService
}

func (h *OrdersHandler) List(c *gin.Context) {
	p := orders.AdminListParams{
		Q:        strings.TrimSpace(c.Query("q")),
		Status:   strings.TrimSpace(c.Query("status")),
		Page:     parseInt(c.Query("page"), 1),
		PageSize: pageSize,
	}
	res, err := h.Svc.List(c.Request.Context(), p)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, view.AdminOrdersPageOf(res, p))
}

func (h *OrdersHandler) Detail(c *gin.Context) {
	o, err := h.Svc.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, gin.H{"order": view.AdminOrderOf(o)})
}

type transitionRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// Transition handles POST /api/admin/orders/:id/:action with an optional note.
func (h *OrdersHandler) Transition(c *gin.Context) {
	var in transitionRequest
	if c.Request.ContentLength != 0 && !render.BindJSON(c, &in) {
		return
	}
	u, _ := middleware.CurrentUser(c)
	o, err := h.Svc.Transition(c.Request.Context(), orders.TransitionInput{
		OrderID:     c.Param("id"),
		ActorUserID: u.ID,
		Action:      c.Param("action"),
		Note:        in.Note,
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, gin.H{"order": view.AdminOrderOf(o)})
}

func parseInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}
