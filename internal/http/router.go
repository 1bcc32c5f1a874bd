// Package http assembles the storefront's JSON API.
package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"glamup.com/app/internal/http/cartcookie"
	"glamup.com/app/internal/http/handlers"
	"glamup.com/app/internal/http/handlers/admin"
	"glamup.com/app/internal/http/middleware"
	admindash "glamup.com/app/internal/modules/admin"
	"glamup.com/app/internal/modules/auth"
	"glamup.com/app/internal/modules/cart"
	"glamup.com/app/internal/modules/catalog"
	"glamup.com/app/internal/modules/checkout"
	"glamup.com/app/internal/modules/orders"
	"glamup.com/app/internal/storage"
)

const SessionCookie = "glamup_session"

// Deps carries everything the router wires into handlers.
type Deps struct {
	Catalog      *catalog.Service
	Auth         *auth.Service
	Orders       *orders.Service
	AdminOrders  *orders.AdminService
	Checkout     *checkout.Service
	Dashboard    *admindash.Dashboard
	Carts        *cart.Registry
	CartCookie   *cartcookie.Codec
	Storage      storage.Storage
	Welcome      handlers.Welcomer
	Health       map[string]handlers.Check
	CORSOrigins  []string
	CookieSecure bool

	// UploadDir is served under UploadURLPrefix when avatars are stored locally.
	UploadDir       string
	UploadURLPrefix string
}

func NewRouter(l *slog.Logger, d Deps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	r.Use(
		middleware.RequestID(),
		middleware.Logger(l, "/healthz"),
		middleware.ErrorHandler(l),
		middleware.Recovery(l),
	)
	if len(d.CORSOrigins) > 0 {
		r.Use(middleware.CORS(d.CORSOrigins))
	}
	if d.UploadDir != "" && d.UploadURLPrefix != "" {
		r.Static(d.UploadURLPrefix, d.UploadDir)
	}

	health := &handlers.HealthHandler{Checks: d.Health}
	r.GET("/healthz", health.Get)

	api := r.Group("/api")
	api.Use(middleware.Authenticate(d.Auth, SessionCookie, d.CookieSecure))

	cat := &handlers.CatalogHandler{Svc: d.Catalog}
	api.GET("/categories", cat.Categories)
	api.GET("/products", cat.List)
	api.GET("/products/:id", cat.Get)
	api.GET("/products/:id/related", cat.Related)

	withCart := api.Group("", middleware.CartSession(d.CartCookie, d.Carts, l))

	ch := &handlers.CartHandler{Catalog: d.Catalog}
	withCart.GET("/cart", ch.Get)
	withCart.GET("/cart/count", ch.Count)
	withCart.POST("/cart/items", ch.Add)
	withCart.PATCH("/cart/items/:key", ch.Update)
	withCart.DELETE("/cart/items/:key", ch.Remove)
	withCart.POST("/cart/toggle", ch.Toggle)
	withCart.DELETE("/cart", ch.Clear)

	ah := &handlers.AuthHandler{Svc: d.Auth, Welcome: d.Welcome, Log: l, CookieName: SessionCookie, CookieSecure: d.CookieSecure}
	api.GET("/auth/register/options", ah.Options)
	api.POST("/auth/register/validate", ah.ValidateStep)
	api.POST("/auth/register", ah.Register)
	api.POST("/auth/login", ah.Login)
	api.POST("/auth/logout", ah.Logout)

	authed := api.Group("", middleware.RequireAuth())

	acc := &handlers.AccountHandler{Auth: d.Auth, Storage: d.Storage, Log: l}
	authed.GET("/account", acc.Get)
	authed.PATCH("/account", acc.Update)
	authed.POST("/account/avatar", acc.UploadAvatar)
	authed.POST("/account/password", acc.ChangePassword)

	oh := &handlers.OrdersHandler{Svc: d.Orders}
	authed.GET("/orders", oh.List)
	authed.GET("/orders/:id", oh.Get)

	co := &handlers.CheckoutHandler{Svc: d.Checkout}
	withCart.POST("/checkout", middleware.RequireAuth(), co.Place)

	adm := api.Group("/admin", middleware.RequireAdmin())
	dash := &admin.DashboardHandler{Dashboard: d.Dashboard}
	adm.GET("/dashboard", dash.Get)

	aoh := &admin.OrdersHandler{Svc: d.AdminOrders}
	adm.GET("/orders", aoh.List)
	adm.GET("/orders/:id", aoh.Detail)
	adm.POST("/orders/:id/:action", aoh.Transition)

	aph := &admin.ProductsHandler{Catalog: d.Catalog}
	adm.POST("/products", aph.Create)

	return r
}
