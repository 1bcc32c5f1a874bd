package admin

import (
	"github.com/gin-gonic/gin"

	"glamup.com/app/internal/http/middleware"
	"glamup.com/app/internal/http/render"
	"glamup.com/app/internal/modules/catalog"
	"glamup.com/app/pkg/view"
)

type ProductsHandler struct {
	Catalog *catalog.Service
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var in catalog.NewProductInput
	if !render.DecodeJSON(c, &in) {
		return
	}
	p, err := h.Catalog.AddProduct(c.Request.Context(), in)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.Created(c, gin.H{"product": view.ProductOf(p)})
}
