package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint was violated.
	ErrAlreadyExists = errors.New("already exists")

	// ErrProductNotFound is returned when an add-to-cart references an
	// unknown product.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidQuantity is returned for quantities that are not positive.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrLineNotFound is returned when a cart update targets a product
	// that is not in the cart.
	ErrLineNotFound = errors.New("product not in cart")
	// ErrEmptyCart aborts a checkout attempt on a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNoAddressAvailable aborts a checkout with neither an inline nor a
	// saved delivery address.
	ErrNoAddressAvailable = errors.New("no delivery address available")
	// ErrPaymentMethodMissing aborts a checkout without a payment selection.
	ErrPaymentMethodMissing = errors.New("payment method missing")
	// ErrPersistenceFailure is returned when the order transaction could not
	// commit. The cart is left untouched and the caller may retry.
	ErrPersistenceFailure = errors.New("order could not be persisted")
	// ErrUnresolvableAddress is returned when a postal code cannot be
	// resolved to coordinates.
	ErrUnresolvableAddress = errors.New("postal code could not be resolved")
	// ErrUnauthenticated is returned for requests without a valid principal.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when a valid principal lacks the required
	// privileges.
	ErrForbidden = errors.New("forbidden")
)
