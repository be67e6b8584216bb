package order

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	// Create persists the order and all its lines in a single
	// transaction. Either everything commits or nothing does.
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, customerID, orderID string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
}
