package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"glamup.com/app/internal/http/middleware"
	"glamup.com/app/internal/http/render"
	"glamup.com/app/internal/modules/catalog"
	"glamup.com/app/pkg/view"
)

type CatalogHandler struct {
	Svc *catalog.Service
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	cats, err := h.Svc.Categories(c.Request.Context())
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, gin.H{"categories": view.CategoriesOf(cats)})
}

// List handles GET /api/products?category=&featured=&new=&q=&limit=
func (h *CatalogHandler) List(c *gin.Context) {
	f := catalog.Filter{
		Category: c.Query("category"),
		Featured: queryBool(c, "featured"),
		New:      queryBool(c, "new"),
		Query:    c.Query("q"),
		Limit:    queryInt(c, "limit", 0),
	}
	items, err := h.Svc.List(c.Request.Context(), f)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, gin.H{"products": view.ProductsOf(items)})
}

func (h *CatalogHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, gin.H{"product": view.ProductOf(p)})
}

func (h *CatalogHandler) Related(c *gin.Context) {
	items, err := h.Svc.Related(c.Request.Context(), c.Param("id"), queryInt(c, "limit", 4))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, gin.H{"products": view.ProductsOf(items)})
}

func queryBool(c *gin.Context, key string) bool {
	b, _ := strconv.ParseBool(c.Query(key))
	return b
}

func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}
