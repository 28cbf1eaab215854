// Package httpadapter serves the sweetshop REST API on net/http.
package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sweetshop/sweetshop/internal/adapters/inbound/wire"
	"github.com/sweetshop/sweetshop/internal/application"
	"github.com/sweetshop/sweetshop/internal/domain"
)

// Services are the application services behind the API.
type Services struct {
	Orders     *application.OrderService
	Products   *application.ProductService
	Categories *application.CategoryService
	Auth       *application.AuthService
	Dashboard  *application.DashboardService
	Health     domain.Pinger
}

// Options carries the optional collaborators of the router.
type Options struct {
	Logger *slog.Logger
	// Observer records per-route metrics. Nil disables them.
	Observer RequestObserver
	// Metrics is mounted at cfg.Metrics.Path when cfg.Metrics.Enabled.
	Metrics http.Handler
}

type router struct {
	svc    Services
	cfg    domain.AppConfig
	logger *slog.Logger
	obs    RequestObserver
}

// NewHandler builds the full middleware-wrapped API handler.
func NewHandler(svc Services, cfg domain.AppConfig, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	rt := &router{svc: svc, cfg: cfg, logger: logger, obs: opts.Observer}

	mux := http.NewServeMux()
	public := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, observe(rt.obs, pattern, h))
	}
	guarded := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, observe(rt.obs, pattern, rt.requireAuth(h)))
	}

	public("POST /auth/login", rt.login)
	public("POST /auth/logout", rt.logout)

	public("GET /products", rt.listProducts)
	public("GET /products/{id}", rt.getProduct)
	guarded("POST /products", rt.createProduct)
	guarded("PUT /products/{id}", rt.updateProduct)
	guarded("DELETE /products/{id}", rt.deleteProduct)

	public("GET /categories", rt.listCategories)
	guarded("POST /categories", rt.createCategory)
	guarded("PATCH /categories/{id}", rt.updateCategory)
	guarded("DELETE /categories/{id}", rt.deleteCategory)

	public("POST /orders", rt.createOrder)
	guarded("GET /orders", rt.listOrders)
	guarded("GET /orders/{id}", rt.getOrder)
	guarded("PATCH /orders/{id}", rt.updateOrderStatus)

	guarded("GET /dashboard", rt.dashboard)
	public("GET /healthz", rt.health)

	if cfg.Metrics.Enabled && opts.Metrics != nil {
		mux.Handle("GET "+cfg.Metrics.Path, opts.Metrics)
	}

	return Chain(mux,
		Recover(logger),
		RequestID(),
		Logging(logger),
		CORS(cfg.Server.CORSOrigins),
		Timeout(cfg.Server.RequestTimeout),
		RequestSizeLimit(cfg.Server.MaxBodyBytes),
	)
}

// decode reads a JSON body into v and writes a 400 on failure.
func (rt *router) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "request body too large"})
		case errors.Is(err, io.EOF):
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "request body is required"})
		default:
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body: " + err.Error()})
		}
		return false
	}
	return true
}

// fail writes err; an unknown product is a 404 on catalog routes.
func (rt *router) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, rt.logger, err, http.StatusNotFound)
}

func (rt *router) health(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := rt.svc.Health.Ping(ctx); err != nil {
			rt.logger.WarnContext(r.Context(), "health check failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Orders.

func (rt *router) createOrder(w http.ResponseWriter, r *http.Request) {
	var body createOrderRequest
	if !rt.decode(w, r, &body) {
		return
	}
	req, err := body.toDomain()
	if err != nil {
		rt.fail(w, r, err)
		return
	}
	order, err := rt.svc.Orders.CreateOrder(r.Context(), req)
	if err != nil {
		// Unknown products make the order request itself invalid.
		writeError(w, r, rt.logger, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, wire.FromOrder(order))
}

func (rt *router) listOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		rt.fail(w, r, err)
		return
	}
	page, err := rt.svc.Orders.List(r.Context(), filter)
	if err != nil {
		rt.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromOrderPage(page))
}

func (rt *router) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := rt.svc.Orders.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		rt.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromOrder(order))
}

func (rt *router) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var body updateStatusRequest
	if !rt.decode(w, r, &body) {
		return
	}
	order, err := rt.svc.Orders.UpdateStatus(r.Context(), r.PathValue("id"), body.Status)
	if err != nil {
		rt.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromOrder(order))
}

// parseListFilter reads page, limit, status, startDate, endDate and productId.
// Non-numeric paging values are rejected; out-of-range ones are clamped later.
func parseListFilter(r *http.Request) (domain.ListOrdersFilter, error) {
	q := r.URL.Query()
	verr := &domain.ValidationError{}
	var f domain.ListOrdersFilter

	intParam := func(name string) int {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			return 0
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			verr.Add(name, "must be an integer")
		}
		return n
	}
	timeParam := func(name string, endOfDay bool) *time.Time {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			return nil
		}
		t, err := wire.ParseTimestamp(raw, endOfDay)
		if err != nil {
			verr.Add(name, "must be an ISO-8601 date or timestamp")
			return nil
		}
		return &t
	}

	f.Page = intParam("page")
	f.Limit = intParam("limit")
	f.Status = domain.OrderStatus(q.Get("status"))
	f.StartDate = timeParam("startDate", false)
	f.EndDate = timeParam("endDate", true)
	f.ProductID = q.Get("productId")
	return f, verr.Err()
}

// Products.

func (rt *router) listProducts(w http.ResponseWriter, r *http.Request) {
	items, err := rt.svc.Products.List(r.Context())
	if err != nil {
		rt.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromProducts(items))
}

func (rt *router) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := rt.svc.Products.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		rt.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromProduct(p))
}

func (rt *router) createProduct(w http.ResponseWriter, r *http.Request) {
	var in domain.ProductInput
	if !rt.decode(w, r, &in) {
		return
	}
	p, err := rt.svc.Products.Create(r.Context(), in)
	if err != nil {
		rt.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wire.FromProduct(p))
}

func (rt *router) updateProduct(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProductPatch
	if !rt.decode(w, r, &patch) {
		return
	}
	p, err := rt.svc.Products.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		rt.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromProduct(p))
}

func (rt *router) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := rt.svc.Products.Delete(r.Context(), r.PathValue("id")); err != nil {
		rt.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Categories.

func (rt *router) listCategories(w http.ResponseWriter, r *http.Request) {
	items, err := rt.svc.Categories.List(r.Context())
	if err != nil {
		rt.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromCategories(items))
}

func (rt *router) createCategory(w http.ResponseWriter, r *http.Request) {
	var body createCategoryRequest
	if !rt.decode(w, r, &body) {
		return
	}
	c, err := rt.svc.Categories.Create(r.Context(), body.Name, body.Icon)
	if err != nil {
		rt.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wire.FromCategory(c))
}

func (rt *router) updateCategory(w http.ResponseWriter, r *http.Request) {
	var patch domain.CategoryPatch
	if !rt.decode(w, r, &patch) {
		return
	}
	c, err := rt.svc.Categories.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		rt.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromCategory(c))
}

func (rt *router) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := rt.svc.Categories.Delete(r.Context(), r.PathValue("id")); err != nil {
		rt.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
