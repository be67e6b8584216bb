package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"storefront/internal/domain"
)

const (
	lockTTL        = 30 * time.Second
	lockRetryDelay = 50 * time.Millisecond
)

// releaseScript deletes the lock only if the caller still owns it.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisStore keeps one JSON document per customer under "cart:<id>".
// Every mutation and WithLock section runs behind a per-customer Redis
// lock, giving the same serialization discipline as MemoryStore but
// across instances and restarts. The TTL is the explicit cart-expiry
// policy the in-memory storefront never had.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func cartKey(customerID string) string { return "cart:" + customerID }
func lockKey(customerID string) string { return "cart:lock:" + customerID }

func (s *RedisStore) acquire(ctx context.Context, customerID string) (func(), error) {
	token := uuid.NewString()
	key := lockKey(customerID)
	for {
		ok, err := s.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire cart lock: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
	release := func() {
		releaseScript.Run(context.WithoutCancel(ctx), s.client, []string{key}, token)
	}
	return release, nil
}

func (s *RedisStore) load(ctx context.Context, customerID string) ([]domain.CartLine, error) {
	raw, err := s.client.Get(ctx, cartKey(customerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return lines, nil
}

func (s *RedisStore) save(ctx context.Context, customerID string, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(customerID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// mutate runs fn on the customer's lines under the per-customer lock and
// persists the result.
func (s *RedisStore) mutate(ctx context.Context, customerID string, fn func(lines []domain.CartLine) ([]domain.CartLine, error)) (domain.Cart, error) {
	release, err := s.acquire(ctx, customerID)
	if err != nil {
		return domain.Cart{}, err
	}
	defer release()

	lines, err := s.load(ctx, customerID)
	if err != nil {
		return domain.Cart{}, err
	}
	updated, err := fn(lines)
	if err != nil {
		return domain.Cart{}, err
	}
	if err := s.save(ctx, customerID, updated); err != nil {
		return domain.Cart{}, err
	}
	return domain.Cart{CustomerID: customerID, Lines: updated}, nil
}

func (s *RedisStore) Get(ctx context.Context, customerID string) (domain.Cart, error) {
	lines, err := s.load(ctx, customerID)
	if err != nil {
		return domain.Cart{}, err
	}
	return domain.Cart{CustomerID: customerID, Lines: lines}, nil
}

func (s *RedisStore) Add(ctx context.Context, customerID string, line domain.CartLine) (domain.Cart, error) {
	return s.mutate(ctx, customerID, func(lines []domain.CartLine) ([]domain.CartLine, error) {
		for i := range lines {
			if lines[i].ProductID == line.ProductID {
				lines[i].Quantity += line.Quantity
				lines[i].UnitPrice = line.UnitPrice
				lines[i].DisplayName = line.DisplayName
				lines[i].ImageRef = line.ImageRef
				return lines, nil
			}
		}
		if line.AddedAt.IsZero() {
			line.AddedAt = time.Now().UTC()
		}
		return append(lines, line), nil
	})
}

func (s *RedisStore) SetQuantity(ctx context.Context, customerID, productID string, quantity int) (domain.Cart, error) {
	return s.mutate(ctx, customerID, func(lines []domain.CartLine) ([]domain.CartLine, error) {
		for i := range lines {
			if lines[i].ProductID != productID {
				continue
			}
			if quantity <= 0 {
				return append(lines[:i], lines[i+1:]...), nil
			}
			lines[i].Quantity = quantity
			return lines, nil
		}
		return nil, domain.ErrLineNotFound
	})
}

func (s *RedisStore) Remove(ctx context.Context, customerID, productID string) (domain.Cart, bool, error) {
	removed := false
	cart, err := s.mutate(ctx, customerID, func(lines []domain.CartLine) ([]domain.CartLine, error) {
		for i := range lines {
			if lines[i].ProductID == productID {
				removed = true
				return append(lines[:i], lines[i+1:]...), nil
			}
		}
		return lines, nil
	})
	return cart, removed, err
}

func (s *RedisStore) Clear(ctx context.Context, customerID string) error {
	_, err := s.mutate(ctx, customerID, func([]domain.CartLine) ([]domain.CartLine, error) {
		return nil, nil
	})
	return err
}

func (s *RedisStore) Totals(ctx context.Context, customerID string) (domain.CartTotals, error) {
	cart, err := s.Get(ctx, customerID)
	if err != nil {
		return domain.CartTotals{}, err
	}
	return domain.CartTotals{LineTotal: cart.LineTotal(), ItemCount: cart.ItemCount()}, nil
}

func (s *RedisStore) WithLock(ctx context.Context, customerID string, fn func(lc Locked) error) error {
	release, err := s.acquire(ctx, customerID)
	if err != nil {
		return err
	}
	defer release()
	return fn(&lockedRedisCart{store: s, customerID: customerID})
}

type lockedRedisCart struct {
	store      *RedisStore
	customerID string
}

func (l *lockedRedisCart) Lines(ctx context.Context) ([]domain.CartLine, error) {
	return l.store.load(ctx, l.customerID)
}

func (l *lockedRedisCart) Clear(ctx context.Context) error {
	return l.store.save(ctx, l.customerID, nil)
}
