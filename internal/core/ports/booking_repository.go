package ports

import (
	"context"
	"time"

	"github.com/stashspace/booking-system/internal/core/domain"
)

// ListBookingsFilter carries all query parameters for listing bookings.
// At most one of UserID/OwnerID/ManagerID/SpaceID is set; all empty means
// the unscoped admin listing.
type ListBookingsFilter struct {
	UserID     string // bookings made by this requester
	OwnerID    string // bookings against this owner's spaces
	ManagerID  string // bookings whose manager snapshot contains this user
	SpaceID    string // bookings for one space
	CategoryID string // optional category filter
	Page       int    // 1-based
	Limit      int    // rows per page
}

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	// List returns a page of bookings matching filter and the total count.
	List(ctx context.Context, filter ListBookingsFilter) ([]*domain.Booking, int64, error)
	// FindOverlapping reports whether any booking on the space intersects
	// the half-open window [from, to).
	FindOverlapping(ctx context.Context, spaceID string, from, to time.Time) (bool, error)
}

// SpaceRepository gives the booking flow read access to spaces.
type SpaceRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Space, error)
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	SetCustomerRef(ctx context.Context, id, customerRef string) error
}

// ConversationRepository defines persistence for conversations and messages.
type ConversationRepository interface {
	Create(ctx context.Context, c *domain.Conversation) error
	FindByID(ctx context.Context, id string) (*domain.Conversation, error)
	// FindByMember returns every conversation the user participates in.
	FindByMember(ctx context.Context, userID string) ([]*domain.Conversation, error)
	AddMember(ctx context.Context, conversationID, userID string) error
	CreateMessage(ctx context.Context, m *domain.Message) error
	FindMessages(ctx context.Context, conversationID string) ([]*domain.Message, error)
}

// TxRunner executes fn inside a single multi-document transaction. Writes
// issued through the ctx passed to fn become visible atomically on commit;
// on error nothing is persisted.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
