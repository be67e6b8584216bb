package customer

import (
	"context"

	"storefront/internal/domain"
)

type CreateCustomerInput struct {
	Email        string
	PasswordHash string
	Name         string
}

type Repository interface {
	Create(ctx context.Context, in CreateCustomerInput) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)

	ListAddresses(ctx context.Context, customerID string) ([]domain.Address, error)
	SaveAddress(ctx context.Context, addr domain.Address) (*domain.Address, error)
}
