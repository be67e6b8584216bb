package order

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const orderQ = `
INSERT INTO orders (id, customer_id, delivery_address, postal_code, shipping_cost, total_amount, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at
`
	if err := tx.QueryRow(ctx, orderQ,
		o.ID, o.CustomerID, o.DeliveryAddress, o.PostalCode, o.ShippingCost, o.TotalAmount, o.Status,
	).Scan(&o.CreatedAt); err != nil {
		return nil, err
	}

	batch := &pgx.Batch{}
	for _, line := range o.Lines {
		batch.Queue(`
INSERT INTO order_lines (order_id, product_id, quantity, unit_price)
VALUES ($1, $2, $3, $4)
`, o.ID, line.ProductID, line.Quantity, line.UnitPrice)
	}
	br := tx.SendBatch(ctx, batch)
	for range o.Lines {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return nil, err
		}
	}
	if err := br.Close(); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	for i := range o.Lines {
		o.Lines[i].OrderID = o.ID
	}
	return &o, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, customerID, orderID string) (*domain.Order, error) {
	const q = `
SELECT id::text, customer_id::text, delivery_address, postal_code, shipping_cost, total_amount, status, created_at
FROM orders
WHERE customer_id = $1 AND id = $2
`
	var o domain.Order
	err := r.pool.QueryRow(ctx, q, customerID, orderID).Scan(
		&o.ID, &o.CustomerID, &o.DeliveryAddress, &o.PostalCode, &o.ShippingCost, &o.TotalAmount, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const linesQ = `
SELECT order_id::text, product_id::text, quantity, unit_price
FROM order_lines
WHERE order_id = $1
`
	rows, err := r.pool.Query(ctx, linesQ, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.OrderID, &line.ProductID, &line.Quantity, &line.UnitPrice); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	const q = `
SELECT id::text, customer_id::text, delivery_address, postal_code, shipping_cost, total_amount, status, created_at
FROM orders
WHERE customer_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.DeliveryAddress, &o.PostalCode, &o.ShippingCost, &o.TotalAmount, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
