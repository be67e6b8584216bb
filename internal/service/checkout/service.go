// Package checkout converts a customer's cart into a persisted order.
//
// Each attempt walks a fixed sequence: empty-cart guard, address
// resolution, payment confirmation, then commit. The commit (order
// insert plus cart clear) runs under the customer's cart lock, so two
// racing checkouts serialize and the loser sees an empty cart. Nothing
// that talks to the network (geocoding, notification, event publish)
// runs while the lock is held.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	cartstore "storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/notify"
	"storefront/internal/shipping"
)

type customerRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	ListAddresses(ctx context.Context, customerID string) ([]domain.Address, error)
	SaveAddress(ctx context.Context, addr domain.Address) (*domain.Address, error)
}

type orderRepo interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
}

type shippingQuoter interface {
	Estimate(ctx context.Context, postalCode string) (shipping.Estimate, error)
}

type Service struct {
	carts     cartstore.Store
	customers customerRepo
	orders    orderRepo
	quoter    shippingQuoter
	flatFee   decimal.Decimal
	notifier  notify.Notifier
	publisher events.Publisher
	logger    zerolog.Logger
}

type Option func(*Service)

// WithShippingQuoter prices shipping from the destination postal code
// instead of the flat fee.
func WithShippingQuoter(q shippingQuoter) Option {
	return func(s *Service) { s.quoter = q }
}

func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func New(carts cartstore.Store, customers customerRepo, orders orderRepo, flatFee decimal.Decimal, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		carts:     carts,
		customers: customers,
		orders:    orders,
		flatFee:   flatFee,
		publisher: events.NopPublisher{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddressInput carries delivery address fields submitted with the
// checkout request.
type AddressInput struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
}

type Input struct {
	Address       *AddressInput `json:"address,omitempty"`
	SaveAddress   bool          `json:"saveAddress"`
	PaymentMethod string        `json:"paymentMethod"`
}

// Checkout runs one checkout attempt for the customer. On success the
// returned order is committed and the cart is empty; on any error the
// cart is exactly as it was.
func (s *Service) Checkout(ctx context.Context, customerID string, in Input) (*domain.Order, error) {
	snapshot, err := s.carts.Get(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if len(snapshot.Lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	deliveryAddress, postalCode, err := s.resolveAddress(ctx, customerID, in)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.PaymentMethod) == "" {
		return nil, domain.ErrPaymentMethodMissing
	}

	// Shipping is quoted before the cart lock is taken: the geocoding
	// round trip must never stall other cart operations.
	shippingCost := s.shippingCost(ctx, postalCode)

	var order *domain.Order
	err = s.carts.WithLock(ctx, customerID, func(lc cartstore.Locked) error {
		lines, err := lc.Lines(ctx)
		if err != nil {
			return fmt.Errorf("read cart: %w", err)
		}
		// a racing checkout may have drained the cart while this
		// attempt was resolving the address
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}

		lineTotal := decimal.Zero
		orderLines := make([]domain.OrderLine, 0, len(lines))
		for _, l := range lines {
			lineTotal = lineTotal.Add(l.Total())
			orderLines = append(orderLines, domain.OrderLine{
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
			})
		}

		created, err := s.orders.Create(ctx, domain.Order{
			ID:              uuid.NewString(),
			CustomerID:      customerID,
			DeliveryAddress: deliveryAddress,
			PostalCode:      postalCode,
			ShippingCost:    shippingCost,
			TotalAmount:     lineTotal.Add(shippingCost),
			Status:          domain.OrderStatusProcessing,
			Lines:           orderLines,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
		}

		// cart is cleared only once the transaction has committed. The
		// order is already durable at this point, so a failed clear
		// (possible on the Redis backend) must not fail the checkout;
		// it leaves a populated cart next to a committed order, and a
		// retried checkout would order those lines again. Log the order
		// id so the leftover cart can be reconciled.
		if err := lc.Clear(ctx); err != nil {
			s.logger.Error().Err(err).
				Str("order_id", created.ID).
				Str("customer_id", customerID).
				Msg("cart clear failed after order commit, cart left populated")
		}
		order = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, customerID, *order)
	return order, nil
}

// resolveAddress picks the delivery address: inline fields win over the
// saved address book; with neither the attempt aborts. An inline
// address with the save flag is persisted immediately and intentionally
// stays saved even if a later step fails.
func (s *Service) resolveAddress(ctx context.Context, customerID string, in Input) (string, string, error) {
	if in.Address != nil && strings.TrimSpace(in.Address.Street) != "" {
		a := domain.Address{
			CustomerID: customerID,
			Street:     in.Address.Street,
			Number:     in.Address.Number,
			Complement: in.Address.Complement,
			District:   in.Address.District,
			City:       in.Address.City,
			State:      in.Address.State,
			PostalCode: in.Address.PostalCode,
		}
		if in.SaveAddress {
			if _, err := s.customers.SaveAddress(ctx, a); err != nil {
				s.logger.Warn().Err(err).Str("customer_id", customerID).Msg("saving checkout address failed")
			}
		}
		return a.Flatten(), a.PostalCode, nil
	}

	saved, err := s.customers.ListAddresses(ctx, customerID)
	if err != nil {
		return "", "", fmt.Errorf("load saved addresses: %w", err)
	}
	if len(saved) == 0 {
		return "", "", domain.ErrNoAddressAvailable
	}
	return saved[0].Flatten(), saved[0].PostalCode, nil
}

func (s *Service) shippingCost(ctx context.Context, postalCode string) decimal.Decimal {
	if s.quoter == nil || strings.TrimSpace(postalCode) == "" {
		return s.flatFee
	}
	est, err := s.quoter.Estimate(ctx, postalCode)
	if err != nil {
		// an unreachable geocoder falls back to the flat fee rather
		// than blocking the purchase
		s.logger.Warn().Err(err).Str("postal_code", postalCode).Msg("shipping quote failed, using flat fee")
		return s.flatFee
	}
	return est.Fee
}

// afterCommit fires the confirmation notification and the order event.
// Both are detached from the request: a client disconnect after commit
// must not cancel them.
func (s *Service) afterCommit(ctx context.Context, customerID string, order domain.Order) {
	bg := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(bg, 10*time.Second)
		defer cancel()

		if s.notifier != nil {
			c, err := s.customers.GetByID(ctx, customerID)
			if err != nil {
				s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("load customer for confirmation failed")
			} else if err := s.notifier.OrderConfirmation(ctx, c.Email, order); err != nil {
				s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("order confirmation failed")
			}
		}

		if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
			s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("publish order event failed")
		}
	}()
}

// IsAbort reports whether err is one of the checkout state-machine
// aborts, as opposed to an infrastructure failure.
func IsAbort(err error) bool {
	return errors.Is(err, domain.ErrEmptyCart) ||
		errors.Is(err, domain.ErrNoAddressAvailable) ||
		errors.Is(err, domain.ErrPaymentMethodMissing)
}
