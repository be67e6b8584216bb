package customer

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const customerColumns = `id::text, email, password_hash, name, is_admin, created_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateCustomerInput) (*domain.Customer, error) {
	const q = `
INSERT INTO customers (email, password_hash, name)
VALUES ($1, $2, $3)
RETURNING ` + customerColumns
	c, err := scanCustomer(r.pool.QueryRow(ctx, q, in.Email, in.PasswordHash, in.Name))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	const q = `
SELECT ` + customerColumns + `
FROM customers
WHERE id = $1
`
	return scanCustomer(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	const q = `
SELECT ` + customerColumns + `
FROM customers
WHERE email = $1
`
	return scanCustomer(r.pool.QueryRow(ctx, q, email))
}

func (r *postgresRepo) ListAddresses(ctx context.Context, customerID string) ([]domain.Address, error) {
	const q = `
SELECT id::text, customer_id::text, street, number, complement, district, city, state, country, postal_code, created_at
FROM customer_addresses
WHERE customer_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Address
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.Street, &a.Number, &a.Complement, &a.District, &a.City, &a.State, &a.Country, &a.PostalCode, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SaveAddress upserts the customer's primary saved address: the first
// existing record is updated in place, otherwise a new one is inserted.
// This mirrors checkout's "save this address" behavior.
func (r *postgresRepo) SaveAddress(ctx context.Context, addr domain.Address) (*domain.Address, error) {
	existing, err := r.ListAddresses(ctx, addr.CustomerID)
	if err != nil {
		return nil, err
	}

	if len(existing) > 0 {
		const q = `
UPDATE customer_addresses
SET street = $2, number = $3, complement = $4, district = $5, city = $6, state = $7, country = $8, postal_code = $9
WHERE id = $1
RETURNING id::text, customer_id::text, street, number, complement, district, city, state, country, postal_code, created_at
`
		return scanAddress(r.pool.QueryRow(ctx, q, existing[0].ID,
			addr.Street, addr.Number, addr.Complement, addr.District, addr.City, addr.State, addr.Country, addr.PostalCode))
	}

	const q = `
INSERT INTO customer_addresses (customer_id, street, number, complement, district, city, state, country, postal_code)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id::text, customer_id::text, street, number, complement, district, city, state, country, postal_code, created_at
`
	return scanAddress(r.pool.QueryRow(ctx, q, addr.CustomerID,
		addr.Street, addr.Number, addr.Complement, addr.District, addr.City, addr.State, addr.Country, addr.PostalCode))
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Email, &c.PasswordHash, &c.Name, &c.IsAdmin, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func scanAddress(row pgx.Row) (*domain.Address, error) {
	var a domain.Address
	err := row.Scan(&a.ID, &a.CustomerID, &a.Street, &a.Number, &a.Complement, &a.District, &a.City, &a.State, &a.Country, &a.PostalCode, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
