package httpadapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httpadapter "github.com/sweetshop/sweetshop/internal/adapters/inbound/http"
	"github.com/sweetshop/sweetshop/internal/adapters/inbound/wire"
	"github.com/sweetshop/sweetshop/internal/adapters/outbound/auth"
	"github.com/sweetshop/sweetshop/internal/adapters/outbound/memory"
	"github.com/sweetshop/sweetshop/internal/adapters/outbound/metrics"
	"github.com/sweetshop/sweetshop/internal/application"
	"github.com/sweetshop/sweetshop/internal/domain"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "correct-horse"
)

type testAPI struct {
	t        *testing.T
	handler  http.Handler
	store    *memory.Store
	products *application.ProductService
	token    string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.NewStore()
	issuer, err := auth.NewJWTIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	authSvc := application.NewAuthService(store.Users, auth.NewBcryptHasher(bcrypt.MinCost), issuer)
	_, _, err = authSvc.CreateUser(context.Background(), adminEmail, "Admin", adminPassword)
	require.NoError(t, err)

	cfg := domain.DefaultConfig()
	cfg.Server.CORSOrigins = []string{"http://shop.test"}
	reg := metrics.New()

	products := application.NewProductService(store.Products)
	svc := httpadapter.Services{
		Orders:     application.NewOrderService(store.Products, store.Orders),
		Products:   products,
		Categories: application.NewCategoryService(store.Categories),
		Auth:       authSvc,
		Dashboard:  application.NewDashboardService(store.Orders),
		Health:     store,
	}
	api := &testAPI{
		t:        t,
		handler:  httpadapter.NewHandler(svc, cfg, httpadapter.Options{Observer: reg, Metrics: reg.Handler()}),
		store:    store,
		products: products,
	}
	session, err := authSvc.Login(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)
	api.token = session.Token
	return api
}

func (a *testAPI) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) seedProduct(name, price string) string {
	a.t.Helper()
	p, err := a.products.Create(context.Background(), domain.ProductInput{Name: name, UnitPrice: price, Category: "pastry"})
	require.NoError(a.t, err)
	return p.ID
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

type errorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields"`
}

func orderBody(lines string) string {
	return `{"customerName":"Ada","customerPhone":"555-0100","scheduledFor":"2026-05-01T10:00:00Z","lines":` + lines + `}`
}

func TestCreateOrder_PricesFromCatalog(t *testing.T) {
	api := newTestAPI(t)
	p1 := api.seedProduct("Tart", "10.50")
	p2 := api.seedProduct("Cake", "25.00")

	rec := api.do(http.MethodPost, "/orders",
		orderBody(`[{"productId":"`+p1+`","quantity":2},{"productId":"`+p2+`","quantity":1}]`), false)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	order := decodeJSON[wire.Order](t, rec)
	assert.Equal(t, "46.00", order.OrderTotal)
	assert.Equal(t, "PENDING", order.Status)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, "10.50", order.Lines[0].UnitPriceAtOrderTime)
	assert.Equal(t, "21.00", order.Lines[0].LineTotal)
	assert.Equal(t, "Tart", order.Lines[0].ProductName)
	assert.Equal(t, "25.00", order.Lines[1].LineTotal)
}

func TestCreateOrder_ClientPriceIsIgnored(t *testing.T) {
	api := newTestAPI(t)
	p1 := api.seedProduct("Tart", "10.50")

	rec := api.do(http.MethodPost, "/orders",
		orderBody(`[{"productId":"`+p1+`","quantity":1,"unitPrice":"0.01"}]`), false)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "10.50", decodeJSON[wire.Order](t, rec).OrderTotal)
}

func TestCreateOrder_UnknownProductIsBadRequest(t *testing.T) {
	api := newTestAPI(t)
	p1 := api.seedProduct("Tart", "10.50")

	rec := api.do(http.MethodPost, "/orders",
		orderBody(`[{"productId":"`+p1+`","quantity":1},{"productId":"ghost","quantity":1}]`), false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeJSON[errorResponse](t, rec).Error, "ghost")
	assert.Empty(t, api.store.Orders.Events(), "nothing persisted")
}

func TestCreateOrder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing name", `{"customerPhone":"1","scheduledFor":"2026-05-01T10:00:00Z"}`, "customerName"},
		{"long phone", `{"customerName":"A","customerPhone":"1234567890123","scheduledFor":"2026-05-01T10:00:00Z"}`, "customerPhone"},
		{"bad date", `{"customerName":"A","customerPhone":"1","scheduledFor":"tomorrow"}`, "scheduledFor"},
		{"negative quantity", orderBody(`[{"productId":"p","quantity":-1}]`), "lines[0].quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			rec := api.do(http.MethodPost, "/orders", tt.body, false)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			resp := decodeJSON[errorResponse](t, rec)
			assert.Equal(t, "validation failed", resp.Error)
			require.NotEmpty(t, resp.Fields)
			assert.Equal(t, tt.field, resp.Fields[0].Field)
		})
	}
}

func TestCreateOrder_MalformedJSON(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/orders", `{"customerName":`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPost, "/orders", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "request body is required", decodeJSON[errorResponse](t, rec).Error)
}

func TestCreateOrder_EmptyLines(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/orders", orderBody(`[]`), false)
	require.Equal(t, http.StatusCreated, rec.Code)
	order := decodeJSON[wire.Order](t, rec)
	assert.Equal(t, "0.00", order.OrderTotal)
	assert.Empty(t, order.Lines)
}

func TestGuardedRoutes_RequireToken(t *testing.T) {
	api := newTestAPI(t)
	routes := []struct{ method, path string }{
		{http.MethodGet, "/orders"},
		{http.MethodGet, "/orders/x"},
		{http.MethodPatch, "/orders/x"},
		{http.MethodPost, "/products"},
		{http.MethodPut, "/products/x"},
		{http.MethodDelete, "/products/x"},
		{http.MethodPost, "/categories"},
		{http.MethodPatch, "/categories/x"},
		{http.MethodDelete, "/categories/x"},
		{http.MethodGet, "/dashboard"},
	}
	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			rec := api.do(r.method, r.path, `{}`, false)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/orders", http.NoBody)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/auth/login", `{"email":"ADMIN@example.com","password":"`+adminPassword+`"}`, false)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.NotEmpty(t, body.AccessToken)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "access_token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, body.AccessToken, cookie.Value)

	// The cookie alone authenticates.
	req := httptest.NewRequest(http.MethodGet, "/dashboard", http.NoBody)
	req.AddCookie(cookie)
	dash := httptest.NewRecorder()
	api.handler.ServeHTTP(dash, req)
	require.Equal(t, http.StatusOK, dash.Code)

	var d struct {
		Message string        `json:"message"`
		User    domain.Claims `json:"user"`
	}
	require.NoError(t, json.NewDecoder(dash.Body).Decode(&d))
	assert.Equal(t, "Welcome to the dashboard", d.Message)
	assert.Equal(t, adminEmail, d.User.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	api := newTestAPI(t)

	for _, body := range []string{
		`{"email":"` + adminEmail + `","password":"nope-nope"}`,
		`{"email":"nobody@example.com","password":"` + adminPassword + `"}`,
	} {
		rec := api.do(http.MethodPost, "/auth/login", body, false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
	}
}

func TestListOrders_PaginationAndFilters(t *testing.T) {
	api := newTestAPI(t)
	p1 := api.seedProduct("Tart", "1.00")
	p2 := api.seedProduct("Cake", "2.00")
	for i := 0; i < 3; i++ {
		rec := api.do(http.MethodPost, "/orders", orderBody(`[{"productId":"`+p1+`","quantity":1}]`), false)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec := api.do(http.MethodPost, "/orders", orderBody(`[{"productId":"`+p2+`","quantity":1}]`), false)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodGet, "/orders?page=-1&limit=0", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeJSON[wire.OrderPage](t, rec)
	assert.Equal(t, domain.Pagination{Total: 4, Page: 1, Limit: 10, TotalPages: 1}, page.Pagination)
	assert.Len(t, page.Data, 4)

	rec = api.do(http.MethodGet, "/orders?page=2&limit=3", "", true)
	page = decodeJSON[wire.OrderPage](t, rec)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Len(t, page.Data, 1)

	rec = api.do(http.MethodGet, "/orders?productId="+p2, "", true)
	page = decodeJSON[wire.OrderPage](t, rec)
	assert.Equal(t, 1, page.Pagination.Total)

	rec = api.do(http.MethodGet, "/orders?status=pending", "", true)
	page = decodeJSON[wire.OrderPage](t, rec)
	assert.Equal(t, 4, page.Pagination.Total)

	rec = api.do(http.MethodGet, "/orders?status=DELIVERED", "", true)
	page = decodeJSON[wire.OrderPage](t, rec)
	assert.Equal(t, 0, page.Pagination.Total)
	assert.NotNil(t, page.Data)
}

func TestListOrders_BadQuery(t *testing.T) {
	api := newTestAPI(t)
	for _, q := range []string{
		"status=LOST",
		"page=abc",
		"startDate=yesterday&endDate=2026-01-01",
		"startDate=2026-02-01&endDate=2026-01-01",
	} {
		t.Run(q, func(t *testing.T) {
			rec := api.do(http.MethodGet, "/orders?"+q, "", true)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestOrderStatusUpdate(t *testing.T) {
	api := newTestAPI(t)
	p1 := api.seedProduct("Tart", "10.50")
	created := decodeJSON[wire.Order](t,
		api.do(http.MethodPost, "/orders", orderBody(`[{"productId":"`+p1+`","quantity":2}]`), false))

	// Catalog price changes never reach a stored order.
	rec := api.do(http.MethodPut, "/products/"+p1, `{"unitPrice":"99.00"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodPatch, "/orders/"+created.ID, `{"status":"confirmed"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeJSON[wire.Order](t, rec)
	assert.Equal(t, "CONFIRMED", updated.Status)
	assert.Equal(t, "21.00", updated.OrderTotal)

	rec = api.do(http.MethodGet, "/orders/"+created.ID, "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeJSON[wire.Order](t, rec)
	assert.Equal(t, "CONFIRMED", got.Status)
	assert.Equal(t, "10.50", got.Lines[0].UnitPriceAtOrderTime)

	rec = api.do(http.MethodPatch, "/orders/"+created.ID, `{"status":"LOST"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPatch, "/orders/missing", `{"status":"READY"}`, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodGet, "/orders/missing", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProducts(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/products", `{"name":"Brownie","unitPrice":"3.25","category":"cake"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeJSON[wire.Product](t, rec)
	assert.True(t, created.Active)
	assert.Equal(t, "3.25", created.UnitPrice)

	rec = api.do(http.MethodPost, "/products", `{"name":"Bad","unitPrice":"3.255","category":"cake"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodGet, "/products", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeJSON[[]wire.Product](t, rec), 1)

	rec = api.do(http.MethodGet, "/products/"+created.ID, "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodDelete, "/products/"+created.ID, "", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodGet, "/products/"+created.ID, "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategories(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/categories", `{"name":"Cakes","icon":"cake"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeJSON[wire.Category](t, rec)

	rec = api.do(http.MethodPost, "/categories", `{"name":"cakes","icon":"x"}`, true)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(http.MethodPatch, "/categories/"+created.ID, `{"icon":"slice"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "slice", decodeJSON[wire.Category](t, rec).Icon)

	rec = api.do(http.MethodGet, "/categories", "", false)
	assert.Len(t, decodeJSON[[]wire.Category](t, rec), 1)

	rec = api.do(http.MethodDelete, "/categories/"+created.ID, "", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodDelete, "/categories/"+created.ID, "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/healthz", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = api.do(http.MethodGet, "/metrics", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="GET /healthz"`)
}

func TestCORS(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodOptions, "/orders", http.NoBody)
	req.Header.Set("Origin", "http://shop.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://shop.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/products", http.NoBody)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestSizeLimit(t *testing.T) {
	store := memory.NewStore()
	cfg := domain.DefaultConfig()
	cfg.Server.MaxBodyBytes = 16
	h := httpadapter.NewHandler(httpadapter.Services{
		Orders: application.NewOrderService(store.Products, store.Orders),
	}, cfg, httpadapter.Options{})

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader([]byte(orderBody(`[]`))))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
