package order

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/migrate"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		t.Skipf("test db not reachable: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE order_lines, orders, coupons, tokens, customer_addresses, products, customers RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func insertCustomer(ctx context.Context, t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `
INSERT INTO customers (email, password_hash) VALUES ('order-test@example.com', 'x')
RETURNING id::text`).Scan(&id)
	if err != nil {
		t.Fatalf("insert customer: %v", err)
	}
	return id
}

func insertProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool, name, price string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `
INSERT INTO products (name, price) VALUES ($1, $2)
RETURNING id::text`, name, price).Scan(&id)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}

func TestPostgres_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	customerID := insertCustomer(ctx, t, pool)
	p1 := insertProduct(ctx, t, pool, "Shirt", "10.00")
	p2 := insertProduct(ctx, t, pool, "Mug", "5.00")

	repo := NewPostgres(pool)
	in := domain.Order{
		ID:              uuid.NewString(),
		CustomerID:      customerID,
		DeliveryAddress: "Rua A, 1 - Centro - SP",
		PostalCode:      "03008-020",
		ShippingCost:    decimal.RequireFromString("15.90"),
		TotalAmount:     decimal.RequireFromString("40.90"),
		Status:          domain.OrderStatusProcessing,
		Lines: []domain.OrderLine{
			{ProductID: p1, Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
			{ProductID: p2, Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
		},
	}

	created, err := repo.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}

	got, err := repo.GetByID(ctx, customerID, in.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.TotalAmount.Equal(decimal.RequireFromString("40.90")) {
		t.Fatalf("unexpected total %s", got.TotalAmount)
	}
	if len(got.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got.Lines))
	}

	list, err := repo.ListByCustomer(ctx, customerID)
	if err != nil {
		t.Fatalf("ListByCustomer: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 order, got %d", len(list))
	}
}

func TestPostgres_CreateRollsBackOnBadLine(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	customerID := insertCustomer(ctx, t, pool)

	repo := NewPostgres(pool)
	in := domain.Order{
		ID:              uuid.NewString(),
		CustomerID:      customerID,
		DeliveryAddress: "Rua A, 1",
		ShippingCost:    decimal.RequireFromString("15.90"),
		TotalAmount:     decimal.RequireFromString("25.90"),
		Status:          domain.OrderStatusProcessing,
		Lines: []domain.OrderLine{
			// unknown product violates the FK, so the whole tx must abort
			{ProductID: uuid.NewString(), Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")},
		},
	}

	if _, err := repo.Create(ctx, in); err == nil {
		t.Fatalf("expected create to fail")
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no orders after rollback, got %d", count)
	}
}
