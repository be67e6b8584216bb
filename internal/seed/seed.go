// Package seed loads demo data for local development. Running it twice
// is safe.
package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type product struct {
	name        string
	description string
	price       string
	imagePath   string
	stock       int
}

var products = []product{
	{"Basic T-Shirt", "Plain cotton tee", "49.90", "/images/tshirt.png", 120},
	{"Coffee Mug", "Ceramic mug, 300ml", "29.90", "/images/mug.png", 80},
	{"Canvas Tote", "Reusable shopping bag", "39.90", "/images/tote.png", 45},
	{"Sticker Pack", "10 assorted stickers", "14.90", "/images/stickers.png", 300},
	{"Hoodie", "Fleece-lined hoodie", "149.90", "/images/hoodie.png", 35},
}

// Apply inserts the demo catalog, a sample coupon and an admin account.
func Apply(ctx context.Context, pool *pgxpool.Pool, adminEmail, adminPassword string) error {
	for _, p := range products {
		price := decimal.RequireFromString(p.price)
		_, err := pool.Exec(ctx, `
			INSERT INTO products (name, description, price, image_path, stock)
			SELECT $1, $2, $3, $4, $5
			WHERE NOT EXISTS (SELECT 1 FROM products WHERE name = $1)`,
			p.name, p.description, price, p.imagePath, p.stock,
		)
		if err != nil {
			return fmt.Errorf("seed product %q: %w", p.name, err)
		}
	}

	_, err := pool.Exec(ctx, `
		INSERT INTO coupons (code, discount, active)
		VALUES ('WELCOME10', 0.10, TRUE)
		ON CONFLICT (code) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("seed coupon: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO customers (email, password_hash, name, is_admin)
		VALUES ($1, $2, 'Admin', TRUE)
		ON CONFLICT (email) DO NOTHING`,
		adminEmail, string(hash),
	)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
