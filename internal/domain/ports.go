package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ProductRepository persists the catalog.
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	// FindByIDs returns at most one product per id; unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]Product, error)
}

// CategoryRepository persists categories. Names are unique.
type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error
}

// OrderRepository persists orders. Create and UpdateStatus write the order
// change and its outbox event atomically.
type OrderRepository interface {
	Create(ctx context.Context, o *Order, event OrderEvent) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, filter ListOrdersFilter) ([]Order, int, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus, at time.Time, event OrderEvent) error
	CountByStatus(ctx context.Context) (map[OrderStatus]int, error)
}

// UserRepository persists back-office accounts. Emails are unique.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// OutboxStore hands unsent events to a dispatcher.
type OutboxStore interface {
	// DispatchPending passes up to limit unsent events, oldest first, to fn
	// and marks sent every event fn accepted. It returns how many were sent.
	DispatchPending(ctx context.Context, limit int, fn func(context.Context, OrderEvent) error) (int, error)
}

// EventPublisher delivers outbox events to a broker.
type EventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(claims Claims) (token string, expiresAt time.Time, err error)
	Verify(token string) (Claims, error)
}

// ConfigLoader reads application configuration from a file path.
type ConfigLoader interface {
	Load(path string) (AppConfig, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// MetricsRecorder receives business measurements.
type MetricsRecorder interface {
	OrderCreated(total decimal.Decimal)
	OrderRejected(reason string)
	OutboxPublished(n int)
	OutboxFailed()
}
