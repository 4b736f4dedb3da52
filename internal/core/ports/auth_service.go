package ports

import (
	"context"

	"github.com/stashspace/booking-system/internal/core/domain"
)

// AuthService covers registration and login. Register also creates the
// payment gateway customer whose reference is stored on the user and used
// by every later charge.
type AuthService interface {
	Register(ctx context.Context, fullName, email, password, role string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
