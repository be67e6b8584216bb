package product

import (
	"context"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ImagePath   string
	Stock       int
}

type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	ImagePath   *string
	Stock       *int
}

type Repository interface {
	Create(ctx context.Context, in CreateProductInput) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, id string, in UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
