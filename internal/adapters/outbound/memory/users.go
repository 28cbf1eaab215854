package memory

import (
	"context"
	"sync"

	"github.com/sweetshop/sweetshop/internal/domain"
)

// UserRepository is an in-memory domain.UserRepository keyed by email.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

func (r *UserRepository) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.Email]; ok {
		return domain.ErrUserConflict
	}
	r.users[u.Email] = *u
	return nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

// Store groups the in-memory repositories behind one handle.
type Store struct {
	Products   *ProductRepository
	Categories *CategoryRepository
	Orders     *OrderRepository
	Users      *UserRepository
}

func NewStore() *Store {
	return &Store{
		Products:   NewProductRepository(),
		Categories: NewCategoryRepository(),
		Orders:     NewOrderRepository(),
		Users:      NewUserRepository(),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close releases nothing.
func (s *Store) Close() {}
