package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	cartstore "storefront/internal/cart"
	"storefront/internal/domain"
)

type stubProductRepo struct {
	products map[string]*domain.Product
	err      error
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func newService(t *testing.T, opts ...Option) (*Service, *stubProductRepo) {
	t.Helper()
	repo := &stubProductRepo{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Shirt", Price: decimal.RequireFromString("10.00"), ImagePath: "/img/shirt.png"},
		"p2": {ID: "p2", Name: "Mug", Price: decimal.RequireFromString("5.00")},
	}}
	return New(cartstore.NewMemoryStore(), repo, opts...), repo
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.AddItem(context.Background(), "c1", "missing", 1)
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestAddItemInvalidQuantity(t *testing.T) {
	svc, _ := newService(t)
	for _, qty := range []int{0, -3} {
		_, err := svc.AddItem(context.Background(), "c1", "p1", qty)
		if !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Fatalf("quantity %d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
}

func TestAddItemCapturesSnapshot(t *testing.T) {
	svc, _ := newService(t)
	cart, err := svc.AddItem(context.Background(), "c1", "p1", 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	l := cart.Lines[0]
	if l.DisplayName != "Shirt" || l.ImageRef != "/img/shirt.png" {
		t.Fatalf("unexpected snapshot fields %+v", l)
	}
	if !l.UnitPrice.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected snapshot price 10.00, got %s", l.UnitPrice)
	}
}

func TestReAddRefreshesSnapshotKeepsQuantity(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "c1", "p1", 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	// catalog price changes between adds
	repo.products["p1"].Price = decimal.RequireFromString("11.00")

	cart, err := svc.AddItem(ctx, "c1", "p1", 1)
	if err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if cart.Lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", cart.Lines[0].Quantity)
	}
	if !cart.Lines[0].UnitPrice.Equal(decimal.RequireFromString("11.00")) {
		t.Fatalf("expected refreshed snapshot 11.00, got %s", cart.Lines[0].UnitPrice)
	}
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	svc.AddItem(ctx, "c1", "p1", 2)
	cart, err := svc.UpdateQuantity(ctx, "c1", "p1", 0)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart.Lines)
	}

	// absent line afterwards: remove stays a no-op, update errors
	if _, err := svc.RemoveItem(ctx, "c1", "p1"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	if _, err := svc.UpdateQuantity(ctx, "c1", "p1", 2); !errors.Is(err, domain.ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
}

func TestUpdateQuantityZeroConfiguredAsError(t *testing.T) {
	svc, _ := newService(t, WithZeroQuantityError())
	ctx := context.Background()

	svc.AddItem(ctx, "c1", "p1", 2)
	_, err := svc.UpdateQuantity(ctx, "c1", "p1", 0)
	if !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	cart, _, _ := svc.View(ctx, "c1")
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 2 {
		t.Fatalf("cart should be untouched, got %+v", cart.Lines)
	}
}

func TestViewTotals(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	svc.AddItem(ctx, "c1", "p1", 2)
	svc.AddItem(ctx, "c1", "p2", 1)

	_, totals, err := svc.View(ctx, "c1")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if !totals.LineTotal.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("expected 25.00, got %s", totals.LineTotal)
	}
	if totals.ItemCount != 3 {
		t.Fatalf("expected 3 items, got %d", totals.ItemCount)
	}
}
