// Package product exposes the catalog. Reads are public; writes are
// for the admin surface.
package product

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

type Service struct {
	products productrepo.Repository
}

func New(products productrepo.Repository) *Service {
	return &Service{products: products}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in productrepo.CreateProductInput) (*domain.Product, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("product price must not be negative")
	}
	return s.products.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id string, in productrepo.UpdateProductInput) (*domain.Product, error) {
	if in.Price != nil && in.Price.IsNegative() {
		return nil, fmt.Errorf("product price must not be negative")
	}
	return s.products.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}
