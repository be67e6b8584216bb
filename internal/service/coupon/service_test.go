package coupon

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

type stubRepo struct {
	coupon *domain.Coupon
	err    error
}

func (s *stubRepo) GetByCode(context.Context, string) (*domain.Coupon, error) {
	return s.coupon, s.err
}

func TestValidateActiveCoupon(t *testing.T) {
	svc := New(&stubRepo{coupon: &domain.Coupon{
		Code:     "SAVE10",
		Discount: decimal.RequireFromString("0.10"),
		Active:   true,
	}})

	v, err := svc.Validate(context.Background(), "SAVE10", decimal.RequireFromString("200.00"))
	require.NoError(t, err)
	assert.True(t, v.Valid)
	assert.Equal(t, "20.00", v.DiscountAmount.StringFixed(2))
	assert.Equal(t, "180.00", v.NewTotal.StringFixed(2))
}

func TestValidateUnknownCode(t *testing.T) {
	svc := New(&stubRepo{err: domain.ErrNotFound})

	v, err := svc.Validate(context.Background(), "NOPE", decimal.RequireFromString("50.00"))
	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Equal(t, "50.00", v.NewTotal.StringFixed(2))
}

func TestValidateInactiveCoupon(t *testing.T) {
	svc := New(&stubRepo{coupon: &domain.Coupon{
		Code:     "OLD",
		Discount: decimal.RequireFromString("0.50"),
		Active:   false,
	}})

	v, err := svc.Validate(context.Background(), "OLD", decimal.RequireFromString("50.00"))
	require.NoError(t, err)
	assert.False(t, v.Valid)
}

func TestValidateRepoFailure(t *testing.T) {
	svc := New(&stubRepo{err: errors.New("db down")})

	_, err := svc.Validate(context.Background(), "SAVE10", decimal.RequireFromString("50.00"))
	require.Error(t, err)
}

func TestValidateRoundsHalfCents(t *testing.T) {
	svc := New(&stubRepo{coupon: &domain.Coupon{
		Code:     "ODD",
		Discount: decimal.RequireFromString("0.15"),
		Active:   true,
	}})

	v, err := svc.Validate(context.Background(), "ODD", decimal.RequireFromString("33.33"))
	require.NoError(t, err)
	assert.Equal(t, "5.00", v.DiscountAmount.StringFixed(2))
	assert.Equal(t, "28.33", v.NewTotal.StringFixed(2))
}
