package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product entry in a customer's cart. UnitPrice is the
// price snapshot captured when the line was added; it is refreshed only
// when the same product is added again, never on reads.
type CartLine struct {
	ProductID   string          `json:"productId"`
	DisplayName string          `json:"displayName"`
	ImageRef    string          `json:"imageRef,omitempty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	AddedAt     time.Time       `json:"addedAt"`
}

func (l CartLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds the ordered lines of one customer. Line order is insertion
// order and matters for display only.
type Cart struct {
	CustomerID string     `json:"customerId"`
	Lines      []CartLine `json:"lines"`
}

func (c Cart) LineTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Total())
	}
	return total
}

func (c Cart) ItemCount() int {
	count := 0
	for _, l := range c.Lines {
		count += l.Quantity
	}
	return count
}

type CartTotals struct {
	LineTotal decimal.Decimal `json:"lineTotal"`
	ItemCount int             `json:"itemCount"`
}
