package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stashspace/booking-system/internal/core/domain"
	"github.com/stashspace/booking-system/internal/core/ports"
)

type ConversationService struct {
	repo      ports.ConversationRepository
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

func NewConversationService(repo ports.ConversationRepository, logger zerolog.Logger) *ConversationService {
	return &ConversationService{
		repo:      repo,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
	}
}

// memberSet builds the deduplicated member list for a booking conversation,
// keeping insertion order: requester first, then owner, then managers.
func memberSet(requesterID, ownerID string, managers []string) []string {
	members := make([]string, 0, 2+len(managers))
	seen := make(map[string]struct{}, 2+len(managers))
	for _, id := range append([]string{requesterID, ownerID}, managers...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}
	return members
}

// Bootstrap finds or builds the conversation for a new booking between the
// requester, the space owner, and the owner's delegated managers.
//
// Reuse rule: an existing thread serves the booking only when it is exactly
// the two-party requester/owner thread and no managers are involved, or
// when it is a larger thread whose members already cover everyone intended.
// A two-party thread between the same pair is never grown into a
// three-or-more-party booking thread; a new one is created instead. The
// rule favours reuse over duplication and accepts false negatives.
//
// A freshly built conversation is returned unpersisted (reused false) so
// the caller can save it inside the booking transaction.
func (s *ConversationService) Bootstrap(ctx context.Context, requesterID, ownerID string, managers []string) (*domain.Conversation, bool, error) {
	intended := memberSet(requesterID, ownerID, managers)

	candidates, err := s.repo.FindByMember(ctx, requesterID)
	if err != nil {
		return nil, false, fmt.Errorf("bootstrap conversation: %w", err)
	}

	for _, c := range candidates {
		if !c.HasMember(ownerID) {
			continue
		}
		if len(c.Members) == 2 && len(intended) == 2 {
			return c, true, nil
		}
		if len(c.Members) > 2 && c.ContainsAll(intended) {
			return c, true, nil
		}
	}

	conv := &domain.Conversation{
		ID:        primitive.NewObjectID().Hex(),
		Members:   intended,
		CreatedAt: time.Now().UTC(),
	}
	return conv, false, nil
}

// StartConversation mirrors the standalone "new conversation" operation:
// a two-party thread is created unless one already exists for the pair.
func (s *ConversationService) StartConversation(ctx context.Context, senderID, receiverID string) (*ports.ConversationView, error) {
	conv, reused, err := s.Bootstrap(ctx, senderID, receiverID, nil)
	if err != nil {
		return nil, err
	}
	if !reused {
		if err := s.repo.Create(ctx, conv); err != nil {
			return nil, fmt.Errorf("start conversation: %w", err)
		}
		s.logger.Info().Str("conversation_id", conv.ID).Msg("conversation started")
	}
	return toConversationView(conv), nil
}

func (s *ConversationService) UserConversations(ctx context.Context, userID string) ([]ports.ConversationView, error) {
	convs, err := s.repo.FindByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user conversations: %w", err)
	}
	views := make([]ports.ConversationView, 0, len(convs))
	for _, c := range convs {
		views = append(views, *toConversationView(c))
	}
	return views, nil
}

// AddMember grows a conversation's member set. Adding an existing member is
// a no-op; members are never removed.
func (s *ConversationService) AddMember(ctx context.Context, conversationID, userID string) error {
	conv, err := s.repo.FindByID(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	if conv.HasMember(userID) {
		return nil
	}
	if err := s.repo.AddMember(ctx, conversationID, userID); err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	s.logger.Info().Str("conversation_id", conversationID).Str("user_id", userID).Msg("member added to conversation")
	return nil
}

// SendMessage appends a message to a conversation. Bodies are run through a
// strict HTML sanitizer before persisting since they are rendered verbatim
// by clients.
func (s *ConversationService) SendMessage(ctx context.Context, conversationID, senderID, body string) (*ports.MessageView, error) {
	conv, err := s.repo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	if !conv.HasMember(senderID) {
		return nil, domain.ErrForbidden
	}

	msg := &domain.Message{
		ID:             primitive.NewObjectID().Hex(),
		ConversationID: conversationID,
		Sender:         senderID,
		Body:           strings.TrimSpace(s.sanitizer.Sanitize(body)),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return toMessageView(msg), nil
}

func (s *ConversationService) ConversationMessages(ctx context.Context, conversationID string) ([]ports.MessageView, error) {
	if _, err := s.repo.FindByID(ctx, conversationID); err != nil {
		return nil, fmt.Errorf("conversation messages: %w", err)
	}
	msgs, err := s.repo.FindMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("conversation messages: %w", err)
	}
	views := make([]ports.MessageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, *toMessageView(m))
	}
	return views, nil
}

func toConversationView(c *domain.Conversation) *ports.ConversationView {
	return &ports.ConversationView{ID: c.ID, Members: c.Members, CreatedAt: c.CreatedAt}
}

func toMessageView(m *domain.Message) *ports.MessageView {
	return &ports.MessageView{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Sender:         m.Sender,
		Body:           m.Body,
		CreatedAt:      m.CreatedAt,
	}
}
