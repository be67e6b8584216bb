package customer

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	customerrepo "storefront/internal/repository/customer"
	tokenrepo "storefront/internal/repository/token"
)

type fakeCustomerRepo struct {
	byEmail map[string]*domain.Customer
	byID    map[string]*domain.Customer
	nextID  int
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{
		byEmail: map[string]*domain.Customer{},
		byID:    map[string]*domain.Customer{},
	}
}

func (f *fakeCustomerRepo) Create(_ context.Context, in customerrepo.CreateCustomerInput) (*domain.Customer, error) {
	if _, ok := f.byEmail[in.Email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	f.nextID++
	c := &domain.Customer{
		ID:           string(rune('a' + f.nextID)),
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		Name:         in.Name,
	}
	f.byEmail[c.Email] = c
	f.byID[c.ID] = c
	return c, nil
}

func (f *fakeCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCustomerRepo) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	if c, ok := f.byEmail[email]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCustomerRepo) ListAddresses(context.Context, string) ([]domain.Address, error) {
	return nil, nil
}

func (f *fakeCustomerRepo) SaveAddress(_ context.Context, addr domain.Address) (*domain.Address, error) {
	return &addr, nil
}

type fakeTokenRepo struct {
	tokens map[string]tokenrepo.Token
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]tokenrepo.Token{}}
}

func (f *fakeTokenRepo) Create(_ context.Context, t tokenrepo.Token) error {
	if _, ok := f.tokens[t.Token]; ok {
		return domain.ErrAlreadyExists
	}
	f.tokens[t.Token] = t
	return nil
}

func (f *fakeTokenRepo) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	if t, ok := f.tokens[token]; ok {
		return &t, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTokenRepo) Delete(_ context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

func TestSignupHashesPassword(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := New(repo, newFakeTokenRepo(), time.Hour)

	c, err := svc.Signup(context.Background(), SignupInput{Email: " Ada@Example.com ", Password: "s3cret", Name: "Ada"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if c.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %q", c.Email)
	}
	if c.PasswordHash == "s3cret" {
		t.Fatal("password must not be stored in the clear")
	}
	if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte("s3cret")) != nil {
		t.Fatal("stored hash does not match the password")
	}
}

func TestSignupRejectsMissingFields(t *testing.T) {
	svc := New(newFakeCustomerRepo(), newFakeTokenRepo(), time.Hour)
	if _, err := svc.Signup(context.Background(), SignupInput{Email: "x@y.z"}); err == nil {
		t.Fatal("expected error for missing password")
	}
}

func TestLoginAndVerify(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := New(repo, newFakeTokenRepo(), time.Hour)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Email: "ada@example.com", Password: "s3cret"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	token, c, err := svc.Login(ctx, "ada@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	got, err := svc.VerifyToken(ctx, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.ID != c.ID {
		t.Fatalf("token resolved to %q, want %q", got.ID, c.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := New(newFakeCustomerRepo(), newFakeTokenRepo(), time.Hour)
	ctx := context.Background()
	if _, err := svc.Signup(ctx, SignupInput{Email: "ada@example.com", Password: "s3cret"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, _, err := svc.Login(ctx, "ada@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestVerifyExpiredTokenIsDeleted(t *testing.T) {
	tokens := newFakeTokenRepo()
	repo := newFakeCustomerRepo()
	svc := New(repo, tokens, -time.Minute)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Email: "ada@example.com", Password: "s3cret"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	token, _, err := svc.Login(ctx, "ada@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.VerifyToken(ctx, token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, ok := tokens.tokens[token]; ok {
		t.Fatal("expired token should have been deleted")
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	svc := New(newFakeCustomerRepo(), newFakeTokenRepo(), time.Hour)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Email: "ada@example.com", Password: "s3cret"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	token, _, err := svc.Login(ctx, "ada@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.VerifyToken(ctx, token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after logout, got %v", err)
	}
}
