package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sweetshop/sweetshop/internal/domain"
)

// OrderRepository is an in-memory domain.OrderRepository that also serves
// as the domain.OutboxStore for the events it records.
type OrderRepository struct {
	mu       sync.RWMutex
	orders   map[string]domain.Order
	outbox   []domain.OrderEvent
	inFlight map[string]bool
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders:   make(map[string]domain.Order),
		inFlight: make(map[string]bool),
	}
}

func (r *OrderRepository) Create(_ context.Context, o *domain.Order, event domain.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders[o.ID] = cloneOrder(*o)
	r.outbox = append(r.outbox, event)
	return nil
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	out := cloneOrder(o)
	return &out, nil
}

func (r *OrderRepository) List(_ context.Context, filter domain.ListOrdersFilter) ([]domain.Order, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []domain.Order
	for _, o := range r.orders {
		if filter.Matches(&o) {
			matched = append(matched, o)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := min(filter.Offset(), total)
	end := start + min(max(filter.Limit, 0), total-start)

	page := make([]domain.Order, 0, end-start)
	for _, o := range matched[start:end] {
		page = append(page, cloneOrder(o))
	}
	return page, total, nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id string, status domain.OrderStatus, at time.Time, event domain.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = at
	r.orders[id] = o
	r.outbox = append(r.outbox, event)
	return nil
}

func (r *OrderRepository) CountByStatus(_ context.Context) (map[domain.OrderStatus]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[domain.OrderStatus]int)
	for _, o := range r.orders {
		counts[o.Status]++
	}
	return counts, nil
}

// DispatchPending implements domain.OutboxStore. Events are claimed under the
// lock and handed to fn without it, so orders stay readable and writable while
// a publish is in flight. A claimed event is never handed to a second caller.
// Accepted events are dropped from the outbox.
func (r *OrderRepository) DispatchPending(ctx context.Context, limit int, fn func(context.Context, domain.OrderEvent) error) (int, error) {
	claimed := r.claim(limit)
	accepted := make(map[string]bool, len(claimed))

	var err error
	for _, ev := range claimed {
		if err = ctx.Err(); err != nil {
			break
		}
		if fn(ctx, ev) == nil {
			accepted[ev.ID] = true
		}
	}

	r.release(claimed, accepted)
	return len(accepted), err
}

func (r *OrderRepository) claim(limit int) []domain.OrderEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	var claimed []domain.OrderEvent
	for _, ev := range r.outbox {
		if len(claimed) >= limit {
			break
		}
		if ev.SentAt != nil || r.inFlight[ev.ID] {
			continue
		}
		r.inFlight[ev.ID] = true
		claimed = append(claimed, ev)
	}
	return claimed
}

func (r *OrderRepository) release(claimed []domain.OrderEvent, accepted map[string]bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ev := range claimed {
		delete(r.inFlight, ev.ID)
	}
	if len(accepted) == 0 {
		return
	}
	kept := r.outbox[:0]
	for _, ev := range r.outbox {
		if !accepted[ev.ID] {
			kept = append(kept, ev)
		}
	}
	clear(r.outbox[len(kept):])
	r.outbox = kept
}

// Events returns a copy of the outbox: every recorded event not yet dispatched.
func (r *OrderRepository) Events() []domain.OrderEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.OrderEvent, len(r.outbox))
	copy(out, r.outbox)
	return out
}

func cloneOrder(o domain.Order) domain.Order {
	lines := make([]domain.OrderLine, len(o.Lines))
	copy(lines, o.Lines)
	o.Lines = lines
	return o
}
