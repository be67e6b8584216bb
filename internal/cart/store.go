// Package cart holds the server-side cart state, keyed by customer.
//
// All mutations for one customer are linearized behind a per-customer
// lock; customers never block each other. Reads return snapshot copies
// taken under the same lock, so a read can never observe a half-applied
// mutation.
package cart

import (
	"context"

	"storefront/internal/domain"
)

// Store is the keyed cart state. Carts are created lazily on first add
// and cleared, not deleted, on checkout.
type Store interface {
	// Get returns the customer's cart, empty if none exists yet.
	Get(ctx context.Context, customerID string) (domain.Cart, error)
	// Add merges the line into the cart: an existing line for the same
	// product has its quantity incremented and its price snapshot,
	// display name and image refreshed; otherwise the line is appended.
	Add(ctx context.Context, customerID string, line domain.CartLine) (domain.Cart, error)
	// SetQuantity sets a line's quantity directly. A quantity of zero or
	// less removes the line. Returns domain.ErrLineNotFound when the
	// product is not in the cart.
	SetQuantity(ctx context.Context, customerID, productID string, quantity int) (domain.Cart, error)
	// Remove deletes the line if present. The boolean reports whether a
	// line was actually removed; removing an absent line is not an error.
	Remove(ctx context.Context, customerID, productID string) (domain.Cart, bool, error)
	// Clear empties the cart.
	Clear(ctx context.Context, customerID string) error
	// Totals returns the cart's line total and item count.
	Totals(ctx context.Context, customerID string) (domain.CartTotals, error)
	// WithLock runs fn while holding the customer's cart lock. Checkout
	// uses this to make commit-then-clear atomic with respect to other
	// cart operations. The Locked view must not escape fn.
	WithLock(ctx context.Context, customerID string, fn func(lc Locked) error) error
}

// Locked is a view of one customer's cart while its lock is held.
type Locked interface {
	Lines(ctx context.Context) ([]domain.CartLine, error)
	Clear(ctx context.Context) error
}
