package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/Kariqs/goneer-api/metrics"
	"github.com/Kariqs/goneer-api/middlewares"
	"github.com/Kariqs/goneer-api/models"
	"github.com/Kariqs/goneer-api/repository"
	"github.com/Kariqs/goneer-api/services"
	"github.com/Kariqs/goneer-api/session"
	"github.com/Kariqs/goneer-api/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubCities map[string]string

func (s stubCities) LookupCity(_ context.Context, code string) (string, error) {
	if city, ok := s[code]; ok {
		return city, nil
	}
	return "", models.ErrLookup
}

type harness struct {
	router *gin.Engine
	store  *session.Store
	tokens *session.Tokens
	repos  *repository.Repositories
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := repository.NewMemory()
	require.NoError(t, repository.Seed(context.Background(), repos))
	cities := stubCities{"110001": "Central Delhi"}
	store := session.NewStore(repos.Users, repos.Profiles, session.NewMemoryPersister(), session.WithCityLookup(cities))
	tokens := session.NewTokens("test-secret")

	opts := services.Options{Metrics: metrics.New(prometheus.NewRegistry()), Log: zaptest.NewLogger(t)}
	c := &Controller{
		Checkout:  services.NewCheckout(repos.Orders, nil, opts),
		Orders:    services.NewOrders(repos.Orders, repos.Vendors, opts),
		Catalog:   services.NewCatalog(repos.Vendors, repos.Products, storage.NewDiskStore(t.TempDir(), "/uploads"), opts),
		Dashboard: services.NewDashboard(repos, opts),
		Cities:    cities,
	}

	router := gin.New()
	router.Use(middlewares.Session(store, tokens, false))
	router.GET("/", c.GetHome)
	router.GET("/postal/:code", c.LookupPostalCode)
	router.POST("/auth/login", c.Login)
	router.POST("/auth/signup", c.Signup)
	router.POST("/auth/logout", middlewares.RequireRole(), c.Logout)
	router.GET("/auth/me", c.Me)
	router.GET("/vendors/:id", c.GetVendor)
	router.GET("/cart", c.GetCart)
	router.POST("/cart/items", c.AddCartItem)
	router.PUT("/cart/items/:productId", c.UpdateCartItem)
	router.DELETE("/cart/items/:productId", c.RemoveCartItem)
	router.GET("/checkout", middlewares.RequireView("checkout"), c.GetCheckout)
	router.POST("/checkout", middlewares.RequireView("checkout"), c.PlaceOrder)
	router.GET("/orders", middlewares.RequireView("orders"), c.GetOrders)
	router.GET("/vendor/dashboard", middlewares.RequireVendor(), c.GetVendorDashboard)
	router.POST("/vendor/products", middlewares.RequireVendor(), c.CreateProduct)
	router.POST("/vendor/products/:id/image", middlewares.RequireVendor(), c.UploadProductImage)
	router.DELETE("/vendor/products/:id", middlewares.RequireVendor(), c.DeleteProduct)
	router.GET("/vendor/orders", middlewares.RequireVendor(), c.GetVendorOrders)
	router.POST("/vendor/orders/:orderId/:action", middlewares.RequireVendor(), c.UpdateOrderStatus)
	router.GET("/admin/dashboard", middlewares.RequireAdmin(), c.GetAdminDashboard)
	router.GET("/admin/orders", middlewares.RequireAdmin(), c.GetAllOrders)
	router.NoRoute(NotFound)

	return &harness{router: router, store: store, tokens: tokens, repos: repos}
}

func (h *harness) newClient(t *testing.T) string {
	t.Helper()
	token, err := h.tokens.Issue(session.NewClientID())
	require.NoError(t, err)
	return token
}

func (h *harness) loginAs(t *testing.T, email string) string {
	t.Helper()
	token := h.newClient(t)
	w := h.do(t, http.MethodPost, "/auth/login", gin.H{"email": email, "password": "password123"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return token
}

func (h *harness) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reader).Encode(body))
	}
	req := httptest.NewRequest(method, path, &reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middlewares.SessionHeader, token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	token := h.newClient(t)

	w := h.do(t, http.MethodPost, "/auth/login", gin.H{"email": "user@test.com", "password": "wrong"}, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decode(t, w)["code"])

	w = h.do(t, http.MethodPost, "/auth/login", gin.H{"email": "user@test.com", "password": "password123", "from": "/checkout"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "/checkout", body["redirect"])
	assert.NotContains(t, body["user"], "password")

	w = h.do(t, http.MethodGet, "/auth/me", nil, token)
	assert.Equal(t, "authenticated", decode(t, w)["state"])
}

func TestLogin_ValidationMessages(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodPost, "/auth/login", gin.H{"email": "not-an-email"}, h.newClient(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, msgInvalidInput, body["message"])
	assert.Contains(t, body["error"], "Email must be a valid email address")
	assert.Contains(t, body["error"], "Password is required")
}

func TestLogin_VendorLandsOnDashboard(t *testing.T) {
	h := newHarness(t)
	w := h.do(t, http.MethodPost, "/auth/login", gin.H{"email": "vendor@test.com", "password": "password123", "from": "//evil.example"}, h.newClient(t))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/vendor/dashboard", decode(t, w)["redirect"])
}

func TestSignup(t *testing.T) {
	h := newHarness(t)
	signup := gin.H{
		"fullName":        "Ravi Kumar",
		"email":           "ravi@test.com",
		"password":        "secret1",
		"confirmPassword": "secret1",
		"role":            "vendor",
		"postalCode":      "110001",
	}

	w := h.do(t, http.MethodPost, "/auth/signup", signup, h.newClient(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "/vendor/dashboard", body["redirect"])
	assert.Equal(t, "Central Delhi", body["profile"].(map[string]any)["city"])

	w = h.do(t, http.MethodPost, "/auth/signup", signup, h.newClient(t))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_EMAIL", decode(t, w)["code"])
}

func TestSignup_CannotCreateAdmin(t *testing.T) {
	h := newHarness(t)
	token := h.newClient(t)

	w := h.do(t, http.MethodPost, "/auth/signup", gin.H{
		"fullName":        "Mallory",
		"email":           "mallory@test.com",
		"password":        "secret1",
		"confirmPassword": "secret1",
		"role":            "admin",
	}, token)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, decode(t, w)["error"], "Role must be one of: user, vendor")

	w = h.do(t, http.MethodGet, "/admin/dashboard", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = h.do(t, http.MethodGet, "/admin/orders", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(t, http.MethodPost, "/auth/login", gin.H{"email": "mallory@test.com", "password": "secret1"}, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	token := h.loginAs(t, "user@test.com")

	w := h.do(t, http.MethodPost, "/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(t, http.MethodGet, "/orders", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCart(t *testing.T) {
	h := newHarness(t)
	token := h.newClient(t)

	w := h.do(t, http.MethodPost, "/cart/items", gin.H{"productId": "p404"}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	h.do(t, http.MethodPost, "/cart/items", gin.H{"productId": "p1"}, token)
	w = h.do(t, http.MethodPost, "/cart/items", gin.H{"productId": "p1"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "160", body["total"])
	assert.Equal(t, float64(2), body["count"])

	w = h.do(t, http.MethodPut, "/cart/items/p1", gin.H{"quantity": 5}, token)
	assert.Equal(t, "400", decode(t, w)["total"])

	w = h.do(t, http.MethodPut, "/cart/items/p1", gin.H{}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(t, http.MethodPut, "/cart/items/p1", gin.H{"quantity": 0}, token)
	body = decode(t, w)
	assert.Empty(t, body["items"])
	assert.Equal(t, "0", body["total"])
}

func TestCheckoutFlow(t *testing.T) {
	h := newHarness(t)
	token := h.loginAs(t, "user@test.com")

	w := h.do(t, http.MethodPost, "/checkout", gin.H{"deliveryAddress": "12 Lake Rd"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "/cart", decode(t, w)["redirect"])

	h.do(t, http.MethodPost, "/cart/items", gin.H{"productId": "p1"}, token)
	h.do(t, http.MethodPost, "/cart/items", gin.H{"productId": "p1"}, token)

	w = h.do(t, http.MethodPost, "/checkout", gin.H{"deliveryAddress": "12 Lake Rd"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orders := decode(t, w)["orders"].([]any)
	require.Len(t, orders, 1)
	order := orders[0].(map[string]any)
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "160", order["total_amount"])

	w = h.do(t, http.MethodGet, "/checkout", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["placed"], 1)

	w = h.do(t, http.MethodGet, "/orders?limit=2", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["orders"], 2)
	assert.Equal(t, order["id"], body["orders"].([]any)[0].(map[string]any)["id"])
	metadata := body["metadata"].(map[string]any)
	assert.Equal(t, float64(3), metadata["total"])
	assert.Equal(t, true, metadata["hasNextPage"])
}

func TestGetOrders_PageBeyondEnd(t *testing.T) {
	h := newHarness(t)
	token := h.loginAs(t, "user@test.com")

	for _, query := range []string{
		"?page=922337203685477580&limit=100",
		"?page=9223372036854775807&limit=9223372036854775807",
		"?page=3&limit=1",
	} {
		w := h.do(t, http.MethodGet, "/orders"+query, nil, token)
		require.Equal(t, http.StatusOK, w.Code, query)
		body := decode(t, w)
		assert.Empty(t, body["orders"], query)
		assert.Equal(t, false, body["metadata"].(map[string]any)["hasNextPage"], query)
	}

	w := h.do(t, http.MethodGet, "/orders?page=2&limit=1", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["orders"], 1)
}

func TestCheckout_RequiresLogin(t *testing.T) {
	h := newHarness(t)
	w := h.do(t, http.MethodGet, "/checkout", nil, h.newClient(t))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/checkout", decode(t, w)["from"])
}

func TestUpdateOrderStatus(t *testing.T) {
	h := newHarness(t)
	vendor := h.loginAs(t, "vendor@test.com")

	w := h.do(t, http.MethodGet, "/vendor/orders?limit=1", nil, vendor)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	listing := decode(t, w)
	assert.Len(t, listing["orders"], 1)
	assert.Equal(t, "o2", listing["orders"].([]any)[0].(map[string]any)["id"])

	w = h.do(t, http.MethodPost, "/vendor/orders/o2/accept", nil, vendor)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "accepted", decode(t, w)["order"].(map[string]any)["status"])

	w = h.do(t, http.MethodPost, "/vendor/orders/o2/reject", nil, vendor)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", decode(t, w)["code"])

	w = h.do(t, http.MethodPost, "/vendor/orders/o2/refund", nil, vendor)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `validation failed: unknown order action "refund"`, decode(t, w)["message"])

	w = h.do(t, http.MethodPost, "/vendor/orders/o2/dispatch", nil, h.loginAs(t, "user@test.com"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestVendorDashboardAndProducts(t *testing.T) {
	h := newHarness(t)
	vendor := h.loginAs(t, "vendor@test.com")

	w := h.do(t, http.MethodPost, "/vendor/products", gin.H{"name": "5L Can", "price": "45", "stock": 10}, vendor)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	product := decode(t, w)
	assert.Equal(t, "v1", product["vendor_id"])
	assert.Equal(t, models.DefaultProductImage, product["image_url"])

	w = h.do(t, http.MethodPost, "/vendor/products", gin.H{"price": "45"}, vendor)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(t, http.MethodDelete, "/vendor/products/p2", nil, vendor)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = h.do(t, http.MethodDelete, "/vendor/products/p3", nil, vendor)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(t, http.MethodGet, "/vendor/dashboard", nil, vendor)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)["stats"].(map[string]any)
	assert.Equal(t, float64(3), stats["products"])
	assert.Equal(t, float64(1), stats["pending"])

	w = h.do(t, http.MethodGet, "/vendors/v1", nil, vendor)
	assert.Len(t, decode(t, w)["products"], 2)

	w = h.do(t, http.MethodPost, "/cart/items", gin.H{"productId": "p2"}, vendor)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadProductImage(t *testing.T) {
	h := newHarness(t)
	vendor := h.loginAs(t, "vendor@test.com")

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="jar.png"`)
	header.Set("Content-Type", "image/png")
	part, err := form.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/vendor/products/p1/image", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set(middlewares.SessionHeader, vendor)
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	imageURL := decode(t, w)["product"].(map[string]any)["image_url"].(string)
	assert.Regexp(t, `^/uploads/p1-[0-9a-f]{8}\.png$`, imageURL)

	w = h.do(t, http.MethodPost, "/vendor/products/p1/image", nil, vendor)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminEndpoints(t *testing.T) {
	h := newHarness(t)
	admin := h.loginAs(t, "admin@test.com")

	w := h.do(t, http.MethodGet, "/admin/dashboard", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["users"])
	assert.Equal(t, "400", stats["revenue"])

	w = h.do(t, http.MethodGet, "/admin/orders?status=pending", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["orders"], 1)

	w = h.do(t, http.MethodGet, "/admin/orders?status=lost", nil, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHomePostalAndNotFound(t *testing.T) {
	h := newHarness(t)
	token := h.newClient(t)

	w := h.do(t, http.MethodGet, "/", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["vendors"], 2)

	w = h.do(t, http.MethodGet, "/vendors/v2", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["products"], 1)

	w = h.do(t, http.MethodGet, "/postal/110001", nil, token)
	assert.Equal(t, "Central Delhi", decode(t, w)["city"])

	w = h.do(t, http.MethodGet, "/postal/999999", nil, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = h.do(t, http.MethodGet, "/nowhere", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
