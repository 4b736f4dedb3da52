package domain

import (
	"errors"
	"fmt"
	"time"
)

// AttemptState represents the lifecycle state of a single booking attempt.
type AttemptState string

const (
	StateValidating AttemptState = "validating"
	StatePricing    AttemptState = "pricing"
	StateCharging   AttemptState = "charging"
	StatePersisting AttemptState = "persisting"
	StateCommitted  AttemptState = "committed"
	StateRejected   AttemptState = "rejected"
	StateFailed     AttemptState = "failed"
)

// validTransitions defines the allowed state machine transitions for a
// booking attempt. Rejected is reachable before any external side effect;
// Failed only after a successful charge.
var validTransitions = map[AttemptState][]AttemptState{
	StateValidating: {StatePricing, StateRejected},
	StatePricing:    {StateCharging, StateRejected},
	StateCharging:   {StatePersisting, StateRejected},
	StatePersisting: {StateCommitted, StateFailed},
}

// CanTransitionTo reports whether a transition from the current state to next is valid.
func (s AttemptState) CanTransitionTo(next AttemptState) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

var ErrBookingNotFound = errors.New("booking not found")
var ErrUserNotFound = errors.New("user not found")
var ErrSpaceNotFound = errors.New("space not found")
var ErrSpaceUnavailable = errors.New("space not available")
var ErrInvalidWindow = errors.New("invalid booking window")
var ErrSlotConflict = errors.New("booking window overlaps an existing booking")
var ErrIdempotencyConflict = errors.New("idempotency key was already used with different booking parameters")
var ErrForbidden = errors.New("access forbidden")

// PaymentFailureReason enumerates the gateway failure categories.
type PaymentFailureReason string

const (
	ReasonCardDeclined       PaymentFailureReason = "card_declined"
	ReasonInvalidSource      PaymentFailureReason = "invalid_source"
	ReasonGatewayUnavailable PaymentFailureReason = "gateway_unavailable"
)

// PaymentError is returned when the gateway rejects or cannot process a
// charge. Nothing has been persisted when this error surfaces, so the
// caller may retry safely.
type PaymentError struct {
	Reason PaymentFailureReason
	Err    error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("payment failed (%s)", e.Reason)
}

func (e *PaymentError) Unwrap() error { return e.Err }

// PostChargePersistError means the charge succeeded but the transactional
// persist did not: money has moved and no booking record exists. It carries
// the gateway receipt so reconciliation can refund or retry the persist.
// It must never be collapsed into a generic retryable error.
type PostChargePersistError struct {
	ReceiptID string
	Err       error
}

func (e *PostChargePersistError) Error() string {
	return fmt.Sprintf("booking persist failed after charge %s: %v", e.ReceiptID, e.Err)
}

func (e *PostChargePersistError) Unwrap() error { return e.Err }

// Booking is the committed reservation record. It is append-only: once
// written inside its transaction it is never updated, so the price,
// payment reference, and manager snapshot are fixed at creation time.
type Booking struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	UserID     string    `json:"user_id" bson:"user_id"`
	OwnerID    string    `json:"owner_id" bson:"owner_id"`
	SpaceID    string    `json:"space_id" bson:"space_id"`
	CategoryID string    `json:"category_id" bson:"category_id"`
	Managers   []string  `json:"managers" bson:"managers"`
	From       time.Time `json:"from" bson:"from"`
	To         time.Time `json:"to" bson:"to"`
	// Price is the exact pre-rounded amount (rate * hours), kept for audit.
	Price float64 `json:"price" bson:"price"`
	// AmountCents is what was actually charged, truncated to cents.
	AmountCents int64     `json:"amount_cents" bson:"amount_cents"`
	PaymentID   string    `json:"payment_id" bson:"payment_id"`
	Payment     bool      `json:"payment" bson:"payment"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
