package domain

import (
	"strings"
	"time"
)

// Customer represents a registered storefront user.
type Customer struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name,omitempty"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Address is one saved delivery address. A customer may keep several.
type Address struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"-"`
	Street     string    `json:"street"`
	Number     string    `json:"number,omitempty"`
	Complement string    `json:"complement,omitempty"`
	District   string    `json:"district,omitempty"`
	City       string    `json:"city,omitempty"`
	State      string    `json:"state,omitempty"`
	Country    string    `json:"country,omitempty"`
	PostalCode string    `json:"postalCode,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Flatten renders the address as the free-text snapshot stored on orders.
func (a Address) Flatten() string {
	parts := []string{strings.TrimSpace(a.Street + ", " + a.Number)}
	for _, p := range []string{a.District, a.City, a.State} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " - ")
}
