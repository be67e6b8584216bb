// Package customer handles account signup, token-based login and the
// customer's address book.
package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	customerrepo "storefront/internal/repository/customer"
	tokenrepo "storefront/internal/repository/token"
)

// ErrInvalidCredentials covers both an unknown email and a wrong
// password, so login responses never reveal which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	customers customerrepo.Repository
	tokens    tokenManager
	tokenTTL  time.Duration
}

func New(customers customerrepo.Repository, tokens tokenrepo.Repository, tokenTTL time.Duration) *Service {
	return &Service{
		customers: customers,
		tokens:    tokenManager{repo: tokens},
		tokenTTL:  tokenTTL,
	}
}

type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	c, err := s.customers.Create(ctx, customerrepo.CreateCustomerInput{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Login verifies the password and mints an opaque access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *domain.Customer, error) {
	c, err := s.customers.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Mint(ctx, c.ID, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("mint token: %w", err)
	}
	return token, c, nil
}

// VerifyToken resolves a bearer token to the customer it belongs to.
// Expired tokens are deleted on sight.
func (s *Service) VerifyToken(ctx context.Context, token string) (*domain.Customer, error) {
	t, err := s.tokens.repo.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	if time.Now().After(t.ExpiresAt) {
		_ = s.tokens.repo.Delete(ctx, token)
		return nil, domain.ErrUnauthenticated
	}

	c, err := s.customers.GetByID(ctx, t.CustomerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.repo.Delete(ctx, token)
}

func (s *Service) ListAddresses(ctx context.Context, customerID string) ([]domain.Address, error) {
	return s.customers.ListAddresses(ctx, customerID)
}

func (s *Service) SaveAddress(ctx context.Context, addr domain.Address) (*domain.Address, error) {
	return s.customers.SaveAddress(ctx, addr)
}
