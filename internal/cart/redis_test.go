package cart

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"storefront/internal/domain"
)

func testRedisStore(ctx context.Context, t *testing.T) *RedisStore {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		t.Skipf("test redis not reachable: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, time.Hour)
}

// testCustomer returns a fresh customer id per test so runs never see
// each other's keys, and registers cleanup for the keys it creates.
func testCustomer(t *testing.T, s *RedisStore) string {
	t.Helper()
	id := uuid.NewString()
	t.Cleanup(func() {
		s.client.Del(context.Background(), cartKey(id), lockKey(id))
	})
	return id
}

func TestRedisGetEmpty(t *testing.T) {
	ctx := context.Background()
	s := testRedisStore(ctx, t)
	customerID := testCustomer(t, s)

	cart, err := s.Get(ctx, customerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(cart.Lines))
	}
}

func TestRedisAddMergesAndRefreshesSnapshot(t *testing.T) {
	ctx := context.Background()
	s := testRedisStore(ctx, t)
	customerID := testCustomer(t, s)

	if _, err := s.Add(ctx, customerID, line("p1", "10.00", 2)); err != nil {
		t.Fatalf("add: %v", err)
	}
	cart, err := s.Add(ctx, customerID, line("p1", "11.00", 1))
	if err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected merged line, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", cart.Lines[0].Quantity)
	}
	if !cart.Lines[0].UnitPrice.Equal(line("p1", "11.00", 1).UnitPrice) {
		t.Fatalf("expected refreshed price 11.00, got %s", cart.Lines[0].UnitPrice)
	}
}

func TestRedisConcurrentAddsLoseNoIncrement(t *testing.T) {
	ctx := context.Background()
	s := testRedisStore(ctx, t)
	customerID := testCustomer(t, s)

	const workers = 10
	const perWorker = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				if _, err := s.Add(ctx, customerID, line("p1", "10.00", 1)); err != nil {
					t.Errorf("add: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	cart, err := s.Get(ctx, customerID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != workers*perWorker {
		t.Fatalf("expected quantity %d, got %+v", workers*perWorker, cart.Lines)
	}
}

func TestRedisSetQuantity(t *testing.T) {
	ctx := context.Background()
	s := testRedisStore(ctx, t)
	customerID := testCustomer(t, s)

	if _, err := s.Add(ctx, customerID, line("p1", "10.00", 2)); err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, err := s.SetQuantity(ctx, customerID, "p1", 7)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if cart.Lines[0].Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", cart.Lines[0].Quantity)
	}

	// zero removes the line
	cart, err = s.SetQuantity(ctx, customerID, "p1", 0)
	if err != nil {
		t.Fatalf("set quantity zero: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected line removed, got %+v", cart.Lines)
	}

	_, err = s.SetQuantity(ctx, customerID, "p1", 3)
	if !errors.Is(err, domain.ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
}

func TestRedisWithLockSerializesAgainstMutation(t *testing.T) {
	ctx := context.Background()
	s := testRedisStore(ctx, t)
	customerID := testCustomer(t, s)

	if _, err := s.Add(ctx, customerID, line("p1", "10.00", 1)); err != nil {
		t.Fatalf("add: %v", err)
	}

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		s.WithLock(ctx, customerID, func(lc Locked) error {
			close(entered)
			<-release
			return lc.Clear(ctx)
		})
		close(done)
	}()

	<-entered
	addDone := make(chan struct{})
	go func() {
		s.Add(ctx, customerID, line("p2", "1.00", 1))
		close(addDone)
	}()

	select {
	case <-addDone:
		t.Fatalf("add completed while checkout lock was held")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	<-done
	<-addDone

	cart, err := s.Get(ctx, customerID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].ProductID != "p2" {
		t.Fatalf("expected only the post-clear add to survive, got %+v", cart.Lines)
	}
}

func TestRedisClearKeepsEmptyDocument(t *testing.T) {
	ctx := context.Background()
	s := testRedisStore(ctx, t)
	customerID := testCustomer(t, s)

	if _, err := s.Add(ctx, customerID, line("p1", "10.00", 1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Clear(ctx, customerID); err != nil {
		t.Fatalf("clear: %v", err)
	}

	cart, err := s.Get(ctx, customerID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected cleared cart, got %+v", cart.Lines)
	}
}
