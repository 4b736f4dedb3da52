package ports

import (
	"context"
	"time"

	"github.com/stashspace/booking-system/internal/core/domain"
)

// ConversationView is the API projection of a conversation.
type ConversationView struct {
	ID        string
	Members   []string
	CreatedAt time.Time
}

// MessageView is the API projection of a message.
type MessageView struct {
	ID             string
	ConversationID string
	Sender         string
	Body           string
	CreatedAt      time.Time
}

// ConversationService covers the standalone conversation and messaging
// operations. The booking flow does not go through this interface; it uses
// the bootstrapper directly so thread creation joins the booking
// transaction.
type ConversationService interface {
	// StartConversation creates a conversation between two users unless one
	// already exists under the reuse rule, in which case it is returned.
	StartConversation(ctx context.Context, senderID, receiverID string) (*ConversationView, error)
	UserConversations(ctx context.Context, userID string) ([]ConversationView, error)
	AddMember(ctx context.Context, conversationID, userID string) error
	SendMessage(ctx context.Context, conversationID, senderID, body string) (*MessageView, error)
	ConversationMessages(ctx context.Context, conversationID string) ([]MessageView, error)
}

// ConversationBootstrapper resolves the conversation for a new booking:
// either an existing thread that already covers the participants (reused
// true) or a fresh, not-yet-persisted one (reused false).
type ConversationBootstrapper interface {
	Bootstrap(ctx context.Context, requesterID, ownerID string, managers []string) (conv *domain.Conversation, reused bool, err error)
}
