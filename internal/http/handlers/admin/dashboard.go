// Package admin holds the /api/admin handlers.
package admin

import (
	"github.com/gin-gonic/gin"

	"glamup.com/app/internal/http/middleware"
	"glamup.com/app/internal/http/render"
	"glamup.com/app/internal/modules/admin"
	"glamup.com/app/pkg/view"
)

type DashboardHandler struct {
	Dashboard *admin.Dashboard
}

func (h *DashboardHandler) Get(c *gin.Context) {
	st, err := h.Dashboard.Stats(c.Request.Context())
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, view.DashboardOf(st))
}
