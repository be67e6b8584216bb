package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusProcessing is the status every new order starts in.
const OrderStatusProcessing = "Processing"

// Order is a committed checkout. DeliveryAddress and PostalCode are
// free-text snapshots taken at checkout time, not foreign keys, so later
// address-book edits never rewrite history. TotalAmount is computed once
// at creation: sum of line totals plus ShippingCost.
type Order struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customerId"`
	DeliveryAddress string          `json:"deliveryAddress"`
	PostalCode      string          `json:"postalCode,omitempty"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	Lines           []OrderLine     `json:"lines,omitempty"`
}

// OrderLine is an immutable copy of one cart line at checkout time.
type OrderLine struct {
	OrderID   string          `json:"-"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}
