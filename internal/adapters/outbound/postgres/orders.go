package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sweetshop/sweetshop/internal/domain"
)

const orderColumns = `o.id, o.customer_name, o.customer_phone, o.scheduled_for, o.status, o.order_total::text, o.created_at, o.updated_at`

// OrderRepository implements domain.OrderRepository and domain.OutboxStore.
type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create writes the header, every line and the outbox event in one
// transaction. Nothing is visible unless all rows commit.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order, event domain.OrderEvent) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return persistence("beginning order transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, customer_name, customer_phone, scheduled_for, status, order_total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID, o.CustomerName, o.CustomerPhone, o.ScheduledFor, string(o.Status), o.OrderTotal.String(), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return persistence("inserting order", err)
	}

	if len(o.Lines) > 0 {
		batch := &pgx.Batch{}
		for _, l := range o.Lines {
			batch.Queue(`
				INSERT INTO order_lines (id, order_id, position, product_id, product_name, quantity, unit_price, line_total)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				l.ID, o.ID, l.Position, l.ProductID, l.ProductName, l.Quantity, l.UnitPriceAtOrderTime.String(), l.LineTotal.String(),
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return persistence("inserting order lines", err)
		}
	}

	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return persistence("committing order", err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, persistence("loading order", err)
	}

	orders := []domain.Order{*o}
	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *OrderRepository) List(ctx context.Context, filter domain.ListOrdersFilter) ([]domain.Order, int, error) {
	where, args := orderWhere(filter)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM orders o`+where, args...).Scan(&total); err != nil {
		return nil, 0, persistence("counting orders", err)
	}
	if filter.Offset() >= total {
		return []domain.Order{}, total, nil
	}

	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`SELECT %s FROM orders o%s ORDER BY o.created_at DESC, o.id DESC LIMIT $%d OFFSET $%d`,
		orderColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, persistence("listing orders", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, persistence("scanning order", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, persistence("reading orders", err)
	}
	rows.Close()

	if err := r.attachLines(ctx, orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus changes only status and updated_at, together with the outbox event.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, at time.Time, event domain.OrderEvent) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return persistence("beginning status transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`, id, string(status), at)
	if err != nil {
		return persistence("updating order status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return persistence("committing status change", err)
	}
	return nil
}

func (r *OrderRepository) CountByStatus(ctx context.Context) (map[domain.OrderStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, count(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, persistence("counting orders", err)
	}
	defer rows.Close()

	counts := make(map[domain.OrderStatus]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, persistence("scanning order count", err)
		}
		counts[domain.OrderStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("reading order counts", err)
	}
	return counts, nil
}

// DispatchPending locks a batch of unsent events with FOR UPDATE SKIP LOCKED
// so several relays can run side by side without sending an event twice.
func (r *OrderRepository) DispatchPending(ctx context.Context, limit int, fn func(context.Context, domain.OrderEvent) error) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, persistence("beginning outbox transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `
		SELECT id, event_type, order_id, payload, created_at
		FROM outbox
		WHERE sent_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
		FOR UPDATE SKIP LOCKED`, limit)
	if err != nil {
		return 0, persistence("fetching outbox", err)
	}

	var events []domain.OrderEvent
	for rows.Next() {
		var (
			ev  domain.OrderEvent
			typ string
		)
		if err := rows.Scan(&ev.ID, &typ, &ev.OrderID, &ev.Payload, &ev.CreatedAt); err != nil {
			rows.Close()
			return 0, persistence("scanning outbox", err)
		}
		ev.Type = domain.EventType(typ)
		events = append(events, ev)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, persistence("reading outbox", err)
	}

	sent := 0
	for _, ev := range events {
		if err := fn(ctx, ev); err != nil {
			continue
		}
		if _, err := tx.Exec(ctx, `UPDATE outbox SET sent_at = now() WHERE id = $1`, ev.ID); err != nil {
			return 0, persistence("marking event sent", err)
		}
		sent++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, persistence("committing outbox", err)
	}
	return sent, nil
}

func (r *OrderRepository) attachLines(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
		orders[i].Lines = []domain.OrderLine{}
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, position, product_id, product_name, quantity, unit_price::text, line_total::text
		FROM order_lines
		WHERE order_id = ANY($1)
		ORDER BY order_id, position`, ids)
	if err != nil {
		return persistence("loading order lines", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			l                 domain.OrderLine
			orderID           string
			unitPrice, amount string
		)
		if err := rows.Scan(&l.ID, &orderID, &l.Position, &l.ProductID, &l.ProductName, &l.Quantity, &unitPrice, &amount); err != nil {
			return persistence("scanning order line", err)
		}
		if l.UnitPriceAtOrderTime, err = decimal.NewFromString(unitPrice); err != nil {
			return persistence("parsing unit price", err)
		}
		if l.LineTotal, err = decimal.NewFromString(amount); err != nil {
			return persistence("parsing line total", err)
		}
		i := index[orderID]
		orders[i].Lines = append(orders[i].Lines, l)
	}
	if err := rows.Err(); err != nil {
		return persistence("reading order lines", err)
	}
	return nil
}

func insertEvent(ctx context.Context, q querier, ev domain.OrderEvent) error {
	_, err := q.Exec(ctx,
		`INSERT INTO outbox (id, event_type, order_id, payload, created_at) VALUES ($1, $2, $3, $4, $5)`,
		ev.ID, string(ev.Type), ev.OrderID, ev.Payload, ev.CreatedAt,
	)
	if err != nil {
		return persistence("inserting outbox event", err)
	}
	return nil
}

// orderWhere builds the WHERE clause for filter. Placeholders start at $1.
func orderWhere(filter domain.ListOrdersFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("o.status = $%d", len(args)))
	}
	if filter.HasDateRange() {
		args = append(args, *filter.StartDate, *filter.EndDate)
		conds = append(conds, fmt.Sprintf("o.created_at BETWEEN $%d AND $%d", len(args)-1, len(args)))
	}
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		conds = append(conds, fmt.Sprintf("EXISTS (SELECT 1 FROM order_lines l WHERE l.order_id = o.id AND l.product_id = $%d)", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o      domain.Order
		status string
		total  string
	)
	if err := row.Scan(&o.ID, &o.CustomerName, &o.CustomerPhone, &o.ScheduledFor, &status, &total, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	o.OrderTotal = d
	return &o, nil
}
