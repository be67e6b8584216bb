package customer

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
)

const tokenBytes = 32

// tokenManager mints opaque access tokens. A collision on the random
// value is effectively impossible but the unique index makes it cheap
// to retry anyway.
type tokenManager struct {
	repo tokenrepo.Repository
}

func (m tokenManager) Mint(ctx context.Context, customerID string, ttl time.Duration) (string, error) {
	for attempt := 0; attempt < 3; attempt++ {
		value, err := randomToken()
		if err != nil {
			return "", err
		}
		err = m.repo.Create(ctx, tokenrepo.Token{
			Token:      value,
			CustomerID: customerID,
			ExpiresAt:  time.Now().Add(ttl),
		})
		if err == nil {
			return value, nil
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return "", err
		}
	}
	return "", fmt.Errorf("token collision after retries")
}

func randomToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
