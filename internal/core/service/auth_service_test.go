package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/stashspace/booking-system/internal/core/domain"
)

const testSecret = "test-secret"

func newAuthFixture() (*stubUserRepo, *stubGateway, *AuthService) {
	users := &stubUserRepo{users: map[string]*domain.User{}}
	gateway := &stubGateway{}
	svc := NewAuthService(users, gateway, testSecret, time.Hour, zerolog.Nop())
	return users, gateway, svc
}

func TestRegister_CreatesUserWithGatewayCustomer(t *testing.T) {
	users, gateway, svc := newAuthFixture()

	user, err := svc.Register(context.Background(), "Ada Lovelace", "Ada@Example.com", "s3cr3tpass", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Email != "ada@example.com" {
		t.Errorf("expected lowercased email, got %s", user.Email)
	}
	if user.Role != domain.RoleCustomer {
		t.Errorf("expected default role customer, got %s", user.Role)
	}
	if user.PasswordHash == "s3cr3tpass" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cr3tpass")) != nil {
		t.Error("stored hash does not verify against the password")
	}

	if gateway.customers != 1 {
		t.Fatalf("expected one gateway customer created, got %d", gateway.customers)
	}
	if user.CustomerRef != "cus_1" {
		t.Errorf("expected customer ref cus_1, got %s", user.CustomerRef)
	}
	stored, err := users.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if stored.CustomerRef != "cus_1" {
		t.Errorf("customer ref not persisted, got %s", stored.CustomerRef)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	_, _, svc := newAuthFixture()

	if _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "s3cr3tpass", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Register(context.Background(), "Imposter", "ADA@example.com", "otherpass1", "")
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

// A store outage during the duplicate check must surface as a failure, not
// be mistaken for "email is free" and proceed to create the account.
func TestRegister_StoreFailurePropagates(t *testing.T) {
	users, gateway, svc := newAuthFixture()
	storeErr := errors.New("connection reset by peer")
	users.findEmailErr = storeErr

	_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "s3cr3tpass", "")
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected the store error propagated, got %v", err)
	}
	if errors.Is(err, domain.ErrUserExists) {
		t.Fatal("a store failure must not be reported as a duplicate email")
	}
	if len(users.users) != 0 {
		t.Fatal("no user may be created when the duplicate check failed")
	}
	if gateway.customers != 0 {
		t.Fatal("no gateway customer may be created when the duplicate check failed")
	}
}

func TestRegister_RejectsShortPasswordAndBadRole(t *testing.T) {
	_, gateway, svc := newAuthFixture()

	if _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "short", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for short password, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "s3cr3tpass", "superuser"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown role, got %v", err)
	}
	if gateway.customers != 0 {
		t.Fatal("no gateway customer may be created for a rejected registration")
	}
}

func TestLogin_ReturnsSignedToken(t *testing.T) {
	_, _, svc := newAuthFixture()

	registered, err := svc.Register(context.Background(), "Ada", "ada@example.com", "s3cr3tpass", domain.RoleOwner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "ada@example.com", "s3cr3tpass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("login returned user %s, registered %s", user.ID, registered.ID)
	}

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["user_id"] != registered.ID {
		t.Errorf("expected user_id claim %s, got %v", registered.ID, claims["user_id"])
	}
	if claims["email"] != "ada@example.com" {
		t.Errorf("unexpected email claim %v", claims["email"])
	}
	if claims["role"] != domain.RoleOwner {
		t.Errorf("unexpected role claim %v", claims["role"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("expected exp claim")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	_, _, svc := newAuthFixture()

	if _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "s3cr3tpass", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "ada@example.com", "wrongpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "s3cr3tpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
