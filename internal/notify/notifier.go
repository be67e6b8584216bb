// Package notify defines the order-confirmation seam. The actual email
// transport lives outside this service; LogNotifier stands in for it.
package notify

import (
	"context"

	"github.com/rs/zerolog"

	"storefront/internal/domain"
)

type Notifier interface {
	OrderConfirmation(ctx context.Context, email string, order domain.Order) error
}

type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) OrderConfirmation(_ context.Context, email string, order domain.Order) error {
	n.Logger.Info().
		Str("order_id", order.ID).
		Str("email", email).
		Str("total", order.TotalAmount.StringFixed(2)).
		Msg("order confirmation queued")
	return nil
}
