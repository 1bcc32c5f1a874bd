package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "glamup.com/app/internal/http"
	"glamup.com/app/internal/http/cartcookie"
	"glamup.com/app/internal/http/handlers"
	"glamup.com/app/internal/mailer"
	"glamup.com/app/internal/modules/admin"
	"glamup.com/app/internal/modules/auth"
	"glamup.com/app/internal/modules/cart"
	"glamup.com/app/internal/modules/catalog"
	"glamup.com/app/internal/modules/checkout"
	"glamup.com/app/internal/modules/email"
	"glamup.com/app/internal/modules/orders"
	"glamup.com/app/internal/shared/dbx/dbxtest"
	"glamup.com/app/internal/storage"
)

type app struct {
	t      *testing.T
	router *gin.Engine
	auth   *auth.Service
	mail   *mailer.Mock
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	models := append(auth.Models(), orders.Models()...)
	db := dbxtest.Open(t, models...)

	repo, err := catalog.NewSeededMemoryRepo()
	require.NoError(t, err)
	cat := catalog.NewService(repo)
	authSvc := auth.NewService(auth.NewRepo(db), auth.NewTokenIssuer("test-secret", "glamup"), time.Hour)
	store := orders.NewGormStore(db)
	orderSvc := orders.NewService(store)
	adminOrders := orders.NewAdminService(store)
	m := &mailer.Mock{}
	co := checkout.NewService(orderSvc, email.NewService(m), log, checkout.Options{})
	t.Cleanup(co.Wait)

	r := apphttp.NewRouter(log, apphttp.Deps{
		Catalog:     cat,
		Auth:        authSvc,
		Orders:      orderSvc,
		AdminOrders: adminOrders,
		Checkout:    co,
		Dashboard:   admin.NewDashboard(cat, authSvc, adminOrders),
		Carts:       cart.NewRegistry(nil, log),
		CartCookie:  cartcookie.New([]byte("cookie-secret"), "", false, 0),
		Storage:     storage.NewLocal(t.TempDir(), "/uploads"),
		Health: map[string]handlers.Check{
			"db": func(context.Context) error { return nil },
		},
	})
	return &app{t: t, router: r, auth: authSvc, mail: m}
}

// client keeps cookies and a bearer token between requests.
type client struct {
	app     *app
	cookies map[string]*http.Cookie
	token   string
}

func (a *app) client() *client { return &client{app: a, cookies: map[string]*http.Cookie{}} }

func (c *client) send(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.app.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.app.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func registerBody(email string) map[string]any {
	return map[string]any{
		"name": "Ava Stone", "email": email, "password": "secret1", "confirmPassword": "secret1",
		"gender": "female", "city": "Chicago", "age": 31, "budget": 400,
	}
}

func (c *client) register(email string) {
	w := c.do(http.MethodPost, "/api/auth/register", registerBody(email))
	require.Equal(c.app.t, http.StatusCreated, w.Code, w.Body.String())
	c.token = decode(c.app.t, w)["token"].(string)
}

func TestHealthz(t *testing.T) {
	w := newApp(t).client().do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"db":"ok"`)
}

func TestCatalogEndpoints(t *testing.T) {
	c := newApp(t).client()

	w := c.do(http.MethodGet, "/api/products?category=clothing", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["products"], 2)

	w = c.do(http.MethodGet, "/api/products/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode(t, w)["product"].(map[string]any)
	assert.Equal(t, "79.99", p["price"].(map[string]any)["amount"])

	w = c.do(http.MethodGet, "/api/products/nope", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Product not found.", body["error"])
	assert.NotEmpty(t, body["request_id"])
	assert.Equal(t, body["request_id"], w.Header().Get("X-Request-ID"))

	w = c.do(http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["categories"], 4)
}

func TestCartFlow(t *testing.T) {
	c := newApp(t).client()

	w := c.do(http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, c.cookies, cartcookie.DefaultName)

	w = c.do(http.MethodPost, "/api/cart/items", map[string]any{"productId": "1", "quantity": 2, "size": "M"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	c.do(http.MethodPost, "/api/cart/items", map[string]any{"productId": "1", "quantity": 1, "size": "m"})
	c.do(http.MethodPost, "/api/cart/items", map[string]any{"productId": "2"})

	w = c.do(http.MethodGet, "/api/cart", nil)
	cartBody := decode(t, w)
	assert.EqualValues(t, 4, cartBody["totalItems"])
	assert.Equal(t, "389.96", cartBody["totalPrice"].(map[string]any)["amount"])
	items := cartBody["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "1:M", items[0].(map[string]any)["key"])

	w = c.do(http.MethodPatch, "/api/cart/items/1:M", map[string]any{"quantity": 0})
	assert.EqualValues(t, 2, decode(t, w)["totalItems"], "quantity clamps to 1")

	w = c.do(http.MethodDelete, "/api/cart/items/2", nil)
	assert.EqualValues(t, 1, decode(t, w)["totalItems"])
	w = c.do(http.MethodDelete, "/api/cart/items/2", nil)
	assert.Equal(t, http.StatusOK, w.Code, "removing twice is harmless")

	w = c.do(http.MethodPost, "/api/cart/toggle", nil)
	assert.Equal(t, true, decode(t, w)["open"])

	w = c.do(http.MethodGet, "/api/cart/count", nil)
	assert.EqualValues(t, 1, decode(t, w)["count"])

	w = c.do(http.MethodDelete, "/api/cart", nil)
	body := decode(t, w)
	assert.EqualValues(t, 0, body["totalItems"])
	assert.Equal(t, true, body["open"], "clear keeps the panel state")

	// a second visitor has an independent cart
	other := c.app.client()
	w = other.do(http.MethodGet, "/api/cart/count", nil)
	assert.EqualValues(t, 0, decode(t, w)["count"])
}

func TestCartRejectsUnknownProductAndSize(t *testing.T) {
	c := newApp(t).client()

	w := c.do(http.MethodPost, "/api/cart/items", map[string]any{"productId": "99"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = c.do(http.MethodPost, "/api/cart/items", map[string]any{"productId": "1", "size": "XXXL"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["fields"], "size")

	w = c.do(http.MethodPost, "/api/cart/items", map[string]any{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["fields"], "productId")
}

func TestCartQuantityBounds(t *testing.T) {
	c := newApp(t).client()

	w := c.do(http.MethodPost, "/api/cart/items", map[string]any{"productId": "2", "quantity": int64(math.MaxInt64)})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["fields"], "quantity")

	w = c.do(http.MethodPost, "/api/cart/items", map[string]any{"productId": "2", "quantity": -3})
	require.Equal(t, http.StatusBadRequest, w.Code)

	c.do(http.MethodPost, "/api/cart/items", map[string]any{"productId": "2", "quantity": 99})
	w = c.do(http.MethodPost, "/api/cart/items", map[string]any{"productId": "2", "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.EqualValues(t, 99, body["totalItems"], "a line saturates instead of overflowing")
	assert.Equal(t, "14849.01", body["totalPrice"].(map[string]any)["amount"])

	w = c.do(http.MethodPatch, "/api/cart/items/2", map[string]any{"quantity": 100})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartAddWithoutSizeIsItsOwnLine(t *testing.T) {
	c := newApp(t).client()

	c.do(http.MethodPost, "/api/cart/items", map[string]any{"productId": "1"})
	w := c.do(http.MethodPost, "/api/cart/items", map[string]any{"productId": "1", "size": "XS"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	items := decode(t, w)["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].(map[string]any)["key"])
	assert.Equal(t, "1:XS", items[1].(map[string]any)["key"])
}

func TestRegistrationSteps(t *testing.T) {
	c := newApp(t).client()

	w := c.do(http.MethodGet, "/api/auth/register/options", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, decode(t, w)["steps"])

	w = c.do(http.MethodPost, "/api/auth/register/validate", map[string]any{"step": 1, "email": "bad"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode(t, w)["fields"].(map[string]any)
	assert.Contains(t, fields, "email")
	assert.NotContains(t, fields, "gender")

	body := registerBody("ava@example.com")
	body["step"] = 2
	w = c.do(http.MethodPost, "/api/auth/register/validate", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, decode(t, w)["nextStep"])
}

func TestCheckoutFlow(t *testing.T) {
	a := newApp(t)
	c := a.client()

	c.do(http.MethodPost, "/api/cart/items", map[string]any{"productId": "2", "quantity": 2})

	w := c.do(http.MethodPost, "/api/checkout", map[string]any{"address": "1 Main St", "paymentMethod": "card"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c.register("ava@example.com")

	w = c.do(http.MethodPost, "/api/checkout", map[string]any{"address": "", "paymentMethod": "cash"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["fields"], "paymentMethod")

	w = c.do(http.MethodPost, "/api/checkout", map[string]any{"address": "1 Main St", "paymentMethod": "card"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	order := body["order"].(map[string]any)
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "299.98", order["total"].(map[string]any)["amount"])
	assert.EqualValues(t, 0, body["cart"].(map[string]any)["totalItems"])

	w = c.do(http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)["orders"].([]any)
	require.Len(t, list, 1)

	id := order["id"].(string)
	w = c.do(http.MethodGet, "/api/orders/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	stranger := a.client()
	stranger.register("bob@example.com")
	w = stranger.do(http.MethodGet, "/api/orders/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = c.do(http.MethodPost, "/api/checkout", map[string]any{"address": "1 Main St", "paymentMethod": "card"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "cart is empty now")
}

func TestAdminRoutes(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()

	shopper := a.client()
	shopper.register("ava@example.com")
	shopper.do(http.MethodPost, "/api/cart/items", map[string]any{"productId": "3"})
	w := shopper.do(http.MethodPost, "/api/checkout", map[string]any{"address": "1 Main St", "paymentMethod": "cod"})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := decode(t, w)["order"].(map[string]any)["id"].(string)

	w = shopper.do(http.MethodGet, "/api/admin/dashboard", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = a.client().do(http.MethodGet, "/api/admin/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	_, err := a.auth.CreateAdmin(ctx, "Admin", "admin@example.com", "admin-pass")
	require.NoError(t, err)
	adm := a.client()
	w = adm.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "admin@example.com", "password": "admin-pass"})
	require.Equal(t, http.StatusOK, w.Code)
	adm.token = decode(t, w)["token"].(string)

	w = adm.do(http.MethodGet, "/api/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash := decode(t, w)
	assert.EqualValues(t, 8, dash["products"])
	assert.EqualValues(t, 1, dash["pendingOrders"])

	w = adm.do(http.MethodGet, "/api/admin/orders?status=pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	w = adm.do(http.MethodPost, "/api/admin/orders/"+orderID+"/ship", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = adm.do(http.MethodPost, "/api/admin/orders/"+orderID+"/process", map[string]any{"note": "picked"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	o := decode(t, w)["order"].(map[string]any)
	assert.Equal(t, "processing", o["status"])
	assert.Len(t, o["events"], 1)

	w = adm.do(http.MethodPost, "/api/admin/products", map[string]any{
		"name": "Linen Shirt", "price": "59.50", "category": "mens", "inventory": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = adm.do(http.MethodPost, "/api/admin/products", map[string]any{"name": "Free", "price": 0, "category": "nope"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode(t, w)["fields"].(map[string]any)
	assert.Contains(t, fields, "price")
	assert.Contains(t, fields, "category")
}

func TestLogoutRevokesToken(t *testing.T) {
	c := newApp(t).client()
	c.register("ava@example.com")

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/account", nil).Code)
	require.Equal(t, http.StatusNoContent, c.do(http.MethodPost, "/api/auth/logout", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/account", nil).Code)
}

func TestChangePasswordSignsOutOtherDevices(t *testing.T) {
	a := newApp(t)
	phone := a.client()
	phone.register("ava@example.com")

	laptop := a.client()
	w := laptop.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "ava@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	laptop.token = decode(t, w)["token"].(string)

	w = phone.do(http.MethodPost, "/api/account/password", map[string]any{"currentPassword": "nope", "newPassword": "secret2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = phone.do(http.MethodPost, "/api/account/password", map[string]any{"currentPassword": "secret1", "newPassword": "secret2"})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	assert.Equal(t, http.StatusOK, phone.do(http.MethodGet, "/api/account", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, laptop.do(http.MethodGet, "/api/account", nil).Code)
}

func TestAccountUpdateAndAvatar(t *testing.T) {
	c := newApp(t).client()
	c.register("ava@example.com")

	w := c.do(http.MethodPatch, "/api/account", map[string]any{"city": "Dallas", "budget": 5000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	u := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "Dallas", u["city"])
	assert.EqualValues(t, auth.MaxBudget, u["budget"])

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	w = c.send(multipartRequest(t, "avatar", "me.png", png))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	avatar := decode(t, w)["user"].(map[string]any)["avatarUrl"].(string)
	assert.True(t, strings.HasPrefix(avatar, "/uploads/avatars/"), avatar)

	w = c.send(multipartRequest(t, "avatar", "notes.txt", []byte("hello there")))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["fields"], "avatar")
}

func multipartRequest(t *testing.T, field, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/account/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
