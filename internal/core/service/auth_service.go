package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/stashspace/booking-system/internal/core/domain"
	"github.com/stashspace/booking-system/internal/core/ports"
)

// AuthService implements registration and login. Registration also creates
// the payment gateway customer whose reference backs all future charges.
type AuthService struct {
	repo      ports.UserRepository
	gateway   ports.PaymentGateway
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, gateway ports.PaymentGateway, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, gateway: gateway, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

func validRole(role string) bool {
	switch role {
	case domain.RoleCustomer, domain.RoleOwner, domain.RoleManager, domain.RoleAdmin:
		return true
	}
	return false
}

func (s *AuthService) Register(ctx context.Context, fullName, email, password, role string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return nil, domain.ErrInvalidCredentials
	}
	if role == "" {
		role = domain.RoleCustomer
	}
	if !validRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	switch _, err := s.repo.FindByEmail(ctx, email); {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           primitive.NewObjectID().Hex(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	// A registration whose gateway call fails still stands: the user can
	// log in and browse, and the missing ref only blocks charging.
	ref, err := s.gateway.CreateCustomer(ctx, fmt.Sprintf("%s customer Id", email))
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("gateway customer creation failed at registration")
	} else if err := s.repo.SetCustomerRef(ctx, user.ID, ref); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to store gateway customer ref")
	} else {
		user.CustomerRef = ref
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", role).Msg("user registered")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
