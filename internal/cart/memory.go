package cart

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain"
)

// MemoryStore keeps carts in process memory. This matches the original
// deployment model: carts do not survive a restart and are not shared
// across instances. Use RedisStore when either is required.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]*memoryCart
}

type memoryCart struct {
	mu    sync.Mutex
	lines []domain.CartLine
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]*memoryCart)}
}

func (s *MemoryStore) cart(customerID string) *memoryCart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[customerID]
	if !ok {
		c = &memoryCart{}
		s.carts[customerID] = c
	}
	return c
}

func (c *memoryCart) snapshot(customerID string) domain.Cart {
	lines := make([]domain.CartLine, len(c.lines))
	copy(lines, c.lines)
	return domain.Cart{CustomerID: customerID, Lines: lines}
}

func (s *MemoryStore) Get(_ context.Context, customerID string) (domain.Cart, error) {
	c := s.cart(customerID)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot(customerID), nil
}

func (s *MemoryStore) Add(_ context.Context, customerID string, line domain.CartLine) (domain.Cart, error) {
	c := s.cart(customerID)
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == line.ProductID {
			c.lines[i].Quantity += line.Quantity
			c.lines[i].UnitPrice = line.UnitPrice
			c.lines[i].DisplayName = line.DisplayName
			c.lines[i].ImageRef = line.ImageRef
			return c.snapshot(customerID), nil
		}
	}

	if line.AddedAt.IsZero() {
		line.AddedAt = time.Now().UTC()
	}
	c.lines = append(c.lines, line)
	return c.snapshot(customerID), nil
}

func (s *MemoryStore) SetQuantity(_ context.Context, customerID, productID string, quantity int) (domain.Cart, error) {
	c := s.cart(customerID)
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity = quantity
		}
		return c.snapshot(customerID), nil
	}
	return domain.Cart{}, domain.ErrLineNotFound
}

func (s *MemoryStore) Remove(_ context.Context, customerID, productID string) (domain.Cart, bool, error) {
	c := s.cart(customerID)
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return c.snapshot(customerID), true, nil
		}
	}
	return c.snapshot(customerID), false, nil
}

func (s *MemoryStore) Clear(_ context.Context, customerID string) error {
	c := s.cart(customerID)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	return nil
}

func (s *MemoryStore) Totals(_ context.Context, customerID string) (domain.CartTotals, error) {
	c := s.cart(customerID)
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.snapshot(customerID)
	return domain.CartTotals{LineTotal: snap.LineTotal(), ItemCount: snap.ItemCount()}, nil
}

func (s *MemoryStore) WithLock(_ context.Context, customerID string, fn func(lc Locked) error) error {
	c := s.cart(customerID)
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(&lockedMemoryCart{cart: c})
}

// lockedMemoryCart operates on the already-locked cart; it must not take
// the cart mutex again.
type lockedMemoryCart struct {
	cart *memoryCart
}

func (l *lockedMemoryCart) Lines(_ context.Context) ([]domain.CartLine, error) {
	lines := make([]domain.CartLine, len(l.cart.lines))
	copy(lines, l.cart.lines)
	return lines, nil
}

func (l *lockedMemoryCart) Clear(_ context.Context) error {
	l.cart.lines = nil
	return nil
}
