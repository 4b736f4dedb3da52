package ports

import "time"

// BookingCreatedEvent is emitted after a booking transaction commits. The
// notification sink fans it out to whichever participants are online;
// delivery is best-effort and never affects the committed booking.
type BookingCreatedEvent struct {
	EventID        string
	BookingID      string
	ConversationID string
	UserID         string
	OwnerID        string
	Managers       []string
	OccurredAt     time.Time
}

// BookingNotifier is the post-commit notification sink.
type BookingNotifier interface {
	BookingCreated(event BookingCreatedEvent)
}
