package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coupon holds a fractional discount (0–1) applied at quote time only.
type Coupon struct {
	Code      string          `json:"code"`
	Discount  decimal.Decimal `json:"discount"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"createdAt"`
}
