package ports

import (
	"context"
	"time"
)

// CreateBookingInput carries all data needed to create a booking.
// RateHour is the hourly rate agreed at request time; Card is the gateway
// source token supplied by the client. IdempotencyKey is optional: when set
// it is threaded through to the payment gateway and a retried call with the
// same key reuses the original charge instead of issuing a new one.
type CreateBookingInput struct {
	UserID         string
	SpaceID        string
	CategoryID     string
	From           time.Time
	To             time.Time
	RateHour       float64
	Card           string
	IdempotencyKey string
}

// BookingResult is returned by the service after committing a booking.
type BookingResult struct {
	BookingID      string
	ConversationID string
	PaymentID      string
	Price          float64
	AmountCents    int64
	CreatedAt      time.Time
}

// BookingSummary is the list-view projection of a booking.
type BookingSummary struct {
	ID          string
	UserID      string
	OwnerID     string
	SpaceID     string
	CategoryID  string
	Managers    []string
	From        time.Time
	To          time.Time
	Price       float64
	AmountCents int64
	PaymentID   string
	Payment     bool
	CreatedAt   time.Time
}

// ListBookingsInput selects which bookings to page through. Scope fields
// mirror ListBookingsFilter; Page is 1-based.
type ListBookingsInput struct {
	UserID     string
	OwnerID    string
	ManagerID  string
	SpaceID    string
	CategoryID string
	Page       int
}

// ListBookingsResult is one page of committed bookings.
type ListBookingsResult struct {
	Items        []BookingSummary
	Page         int
	TotalRecords int64
	TotalPages   int
	Limit        int
}

// BookingService defines the reservation use cases: the transactional
// create flow and read access to committed bookings.
type BookingService interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingResult, error)
	GetBooking(ctx context.Context, id string) (*BookingSummary, error)
	ListBookings(ctx context.Context, input ListBookingsInput) (*ListBookingsResult, error)
}
