package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sweetshop/sweetshop/internal/domain"
)

// ProductService manages the product catalog.
type ProductService struct {
	products domain.ProductRepository
	runtime
}

func NewProductService(products domain.ProductRepository, opts ...Option) *ProductService {
	return &ProductService{products: products, runtime: newRuntime(opts)}
}

func (s *ProductService) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	p, err := domain.NewProduct(s.newID(), in, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}
	s.logger.InfoContext(ctx, "product created", slog.String("product_id", p.ID), slog.String("price", domain.FormatMoney(p.UnitPrice)))
	return p, nil
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// Update applies patch to the product. Existing orders keep the prices they
// were placed at.
func (s *ProductService) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Apply(patch, s.now()); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating product %s: %w", id, err)
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}

// CategoryService manages product categories.
type CategoryService struct {
	categories domain.CategoryRepository
	runtime
}

func NewCategoryService(categories domain.CategoryRepository, opts ...Option) *CategoryService {
	return &CategoryService{categories: categories, runtime: newRuntime(opts)}
}

func (s *CategoryService) Create(ctx context.Context, name, icon string) (*domain.Category, error) {
	c, err := domain.NewCategory(s.newID(), name, icon, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *CategoryService) Update(ctx context.Context, id string, patch domain.CategoryPatch) (*domain.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Apply(patch, s.now()); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.categories.Delete(ctx, id)
}
