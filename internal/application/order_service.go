package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sweetshop/sweetshop/internal/domain"
)

// OrderService places, reads and lists orders.
type OrderService struct {
	products domain.ProductRepository
	orders   domain.OrderRepository
	runtime
}

func NewOrderService(
	products domain.ProductRepository,
	orders domain.OrderRepository,
	opts ...Option,
) *OrderService {
	return &OrderService{
		products: products,
		orders:   orders,
		runtime:  newRuntime(opts),
	}
}

// CreateOrder prices req against the live catalog and persists the order,
// its lines and its order.created event in one write. Unit prices are
// snapshotted; later catalog changes never touch a stored order.
func (s *OrderService) CreateOrder(ctx context.Context, req domain.OrderCreateRequest) (*domain.Order, error) {
	// 1. Validate input before touching the catalog
	if err := req.Validate(); err != nil {
		s.recorder.OrderRejected("validation")
		return nil, err
	}

	// 2. Resolve every distinct product in one lookup
	ids := domain.DistinctProductIDs(req.Lines)
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("finding products: %w", err)
	}

	// 3. Referential-integrity gate: one missing product aborts the order
	if len(products) != len(ids) {
		missing := domain.MissingProductIDs(ids, products)
		s.recorder.OrderRejected("product_not_found")
		s.logger.InfoContext(ctx, "order rejected", slog.Any("missing_products", missing))
		return nil, &domain.MissingProductsError{IDs: missing}
	}

	// 4. Snapshot prices and compute totals
	lines, total, err := domain.PriceLines(req.Lines, products)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].ID = s.newID()
	}

	// 5. Build the aggregate and its outbox event
	now := s.now()
	order := domain.NewOrder(s.newID(), req, lines, total, now)
	event, err := domain.NewOrderCreatedEvent(s.newID(), order, now)
	if err != nil {
		return nil, err
	}

	// 6. Persist header, lines and event atomically
	if err := s.orders.Create(ctx, order, event); err != nil {
		s.recorder.OrderRejected("persistence")
		return nil, fmt.Errorf("creating order: %w", err)
	}

	s.recorder.OrderCreated(order.OrderTotal)
	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID),
		slog.Int("lines", len(order.Lines)),
		slog.String("total", domain.FormatMoney(order.OrderTotal)),
	)
	return order, nil
}

// UpdateStatus sets the status of an existing order. Any status may follow
// any other; pricing fields are never touched.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	next, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, domain.NewValidationError("status", err.Error())
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	now := s.now()
	order.Status = next
	order.UpdatedAt = now

	event, err := domain.NewOrderStatusChangedEvent(s.newID(), order, previous, now)
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, id, next, now, event); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("updating order %s: %w", id, err)
	}

	s.logger.InfoContext(ctx, "order status changed",
		slog.String("order_id", id),
		slog.String("from", string(previous)),
		slog.String("to", string(next)),
	)
	return order, nil
}

// GetByID returns the order with the prices recorded at creation time.
func (s *OrderService) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// List returns one page of orders, newest first. Out-of-range paging values
// are clamped to the defaults.
func (s *OrderService) List(ctx context.Context, filter domain.ListOrdersFilter) (*domain.OrderPage, error) {
	filter = filter.Normalize()

	verr := &domain.ValidationError{}
	if filter.Status != "" {
		if _, err := domain.ParseOrderStatus(string(filter.Status)); err != nil {
			verr.Add("status", err.Error())
		}
	}
	if filter.HasDateRange() && filter.StartDate.After(*filter.EndDate) {
		verr.Add("startDate", "must not be after endDate")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return &domain.OrderPage{
		Data:       orders,
		Pagination: domain.NewPagination(total, filter.Page, filter.Limit),
	}, nil
}
