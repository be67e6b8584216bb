package coupon

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// Service validates coupon codes against a candidate total. It is
// read-only and deliberately not wired into checkout; whether checkout
// honors coupons is an integration decision.
type Service struct {
	repo couponRepo
}

type couponRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

func New(repo couponRepo) *Service {
	return &Service{repo: repo}
}

type Validation struct {
	Valid          bool            `json:"valid"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	NewTotal       decimal.Decimal `json:"newTotal"`
}

// Validate returns the discount the code would grant on total. Unknown
// or inactive codes are a negative validation, not an error.
func (s *Service) Validate(ctx context.Context, code string, total decimal.Decimal) (Validation, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Validation{Valid: false, NewTotal: total}, nil
	}

	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Validation{Valid: false, NewTotal: total}, nil
		}
		return Validation{}, err
	}
	if !c.Active {
		return Validation{Valid: false, NewTotal: total}, nil
	}

	discount := total.Mul(c.Discount).Round(2)
	return Validation{
		Valid:          true,
		DiscountAmount: discount,
		NewTotal:       total.Sub(discount),
	}, nil
}
