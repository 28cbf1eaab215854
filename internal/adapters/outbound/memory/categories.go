package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sweetshop/sweetshop/internal/domain"
)

// CategoryRepository is an in-memory domain.CategoryRepository. Name
// uniqueness is case-insensitive.
type CategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]domain.Category
}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{categories: make(map[string]domain.Category)}
}

func (r *CategoryRepository) Create(_ context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(c.Name, "") {
		return domain.ErrCategoryConflict
	}
	r.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepository) List(_ context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		items = append(items, c)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (r *CategoryRepository) GetByID(_ context.Context, id string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *CategoryRepository) Update(_ context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[c.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	if r.nameTaken(c.Name, c.ID) {
		return domain.ErrCategoryConflict
	}
	r.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

// nameTaken must be called with the lock held.
func (r *CategoryRepository) nameTaken(name, exceptID string) bool {
	for id, c := range r.categories {
		if id != exceptID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}
