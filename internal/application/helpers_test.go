package application_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sweetshop/sweetshop/internal/adapters/outbound/memory"
	"github.com/sweetshop/sweetshop/internal/application"
	"github.com/sweetshop/sweetshop/internal/domain"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// steppingClock advances one minute per call so creation order is observable.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	t := baseTime
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// countingOrders records every write reaching the order repository.
type countingOrders struct {
	domain.OrderRepository
	mu       sync.Mutex
	creates  int
	updates  int
	failNext error
}

func (c *countingOrders) Create(ctx context.Context, o *domain.Order, ev domain.OrderEvent) error {
	c.mu.Lock()
	c.creates++
	fail := c.failNext
	c.failNext = nil
	c.mu.Unlock()
	if fail != nil {
		return fail
	}
	return c.OrderRepository.Create(ctx, o, ev)
}

func (c *countingOrders) UpdateStatus(ctx context.Context, id string, st domain.OrderStatus, at time.Time, ev domain.OrderEvent) error {
	c.mu.Lock()
	c.updates++
	c.mu.Unlock()
	return c.OrderRepository.UpdateStatus(ctx, id, st, at, ev)
}

type fixture struct {
	products *memory.ProductRepository
	store    *memory.OrderRepository
	orders   *countingOrders
	catalog  *application.ProductService
	svc      *application.OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	products := memory.NewProductRepository()
	store := memory.NewOrderRepository()
	orders := &countingOrders{OrderRepository: store}
	clock := steppingClock()
	return &fixture{
		products: products,
		store:    store,
		orders:   orders,
		catalog:  application.NewProductService(products, application.WithClock(clock), application.WithIDGenerator(sequentialIDs("prod"))),
		svc:      application.NewOrderService(products, orders, application.WithClock(clock)),
	}
}

// seed stores a product under a fixed id.
func (f *fixture) seed(t *testing.T, id, price string) {
	t.Helper()
	p, err := domain.NewProduct(id, domain.ProductInput{Name: "Product " + id, UnitPrice: price, Category: "doces"}, baseTime)
	require.NoError(t, err)
	require.NoError(t, f.products.Create(context.Background(), p))
}

func orderRequest(lines ...domain.OrderLineRequest) domain.OrderCreateRequest {
	return domain.OrderCreateRequest{
		CustomerName:  "Maria",
		CustomerPhone: "11988887777",
		ScheduledFor:  baseTime.Add(48 * time.Hour),
		Lines:         lines,
	}
}

func line(productID string, qty int) domain.OrderLineRequest {
	return domain.OrderLineRequest{ProductID: productID, Quantity: qty}
}

var errBoom = errors.New("boom")
