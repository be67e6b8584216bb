package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	cartstore "storefront/internal/cart"
	"storefront/internal/domain"
)

// Service mediates cart mutations: it resolves products, validates
// quantities and captures price snapshots before touching the store.
type Service struct {
	store        cartstore.Store
	products     productRepo
	removeOnZero bool
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type Option func(*Service)

// WithZeroQuantityError makes UpdateQuantity reject zero instead of
// treating it as a remove.
func WithZeroQuantityError() Option {
	return func(s *Service) { s.removeOnZero = false }
}

func New(store cartstore.Store, products productRepo, opts ...Option) *Service {
	s := &Service{store: store, products: products, removeOnZero: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// View returns the cart with its totals.
func (s *Service) View(ctx context.Context, customerID string) (domain.Cart, domain.CartTotals, error) {
	c, err := s.store.Get(ctx, customerID)
	if err != nil {
		return domain.Cart{}, domain.CartTotals{}, err
	}
	return c, domain.CartTotals{LineTotal: c.LineTotal(), ItemCount: c.ItemCount()}, nil
}

// AddItem looks the product up and merges it into the cart. Re-adding a
// product refreshes its price snapshot to the current catalog price.
func (s *Service) AddItem(ctx context.Context, customerID, productID string, quantity int) (domain.Cart, error) {
	if quantity <= 0 {
		return domain.Cart{}, domain.ErrInvalidQuantity
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Cart{}, domain.ErrProductNotFound
		}
		return domain.Cart{}, fmt.Errorf("lookup product: %w", err)
	}
	return s.store.Add(ctx, customerID, domain.CartLine{
		ProductID:   p.ID,
		DisplayName: p.Name,
		ImageRef:    p.ImagePath,
		UnitPrice:   p.Price,
		Quantity:    quantity,
		AddedAt:     time.Now().UTC(),
	})
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line
// by default; see WithZeroQuantityError.
func (s *Service) UpdateQuantity(ctx context.Context, customerID, productID string, quantity int) (domain.Cart, error) {
	if quantity <= 0 && !s.removeOnZero {
		return domain.Cart{}, domain.ErrInvalidQuantity
	}
	return s.store.SetQuantity(ctx, customerID, productID, quantity)
}

// RemoveItem removes the line. Removing an absent line is a no-op.
func (s *Service) RemoveItem(ctx context.Context, customerID, productID string) (domain.Cart, error) {
	c, _, err := s.store.Remove(ctx, customerID, productID)
	return c, err
}
