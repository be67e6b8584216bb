// Package events publishes storefront lifecycle events for downstream
// consumers (fulfillment, analytics). Publishing is best effort and
// always happens after the database commit.
package events

import (
	"context"
	"time"

	"storefront/internal/domain"
)

type OrderCreated struct {
	OrderID     string    `json:"orderId"`
	CustomerID  string    `json:"customerId"`
	TotalAmount string    `json:"totalAmount"`
	LineCount   int       `json:"lineCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Publisher interface {
	PublishOrderCreated(ctx context.Context, order domain.Order) error
	Close() error
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderCreated(context.Context, domain.Order) error { return nil }
func (NopPublisher) Close() error                                            { return nil }
