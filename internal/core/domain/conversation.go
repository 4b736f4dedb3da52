package domain

import (
	"errors"
	"time"
)

var ErrConversationNotFound = errors.New("conversation not found")

// Conversation is a message thread among a booking's participants.
// Members are unique and the set only ever grows; insertion order is kept.
type Conversation struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Members   []string  `json:"members" bson:"members"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// HasMember reports whether userID is already part of the conversation.
func (c *Conversation) HasMember(userID string) bool {
	for _, m := range c.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// ContainsAll reports whether every id in members is present in the conversation.
func (c *Conversation) ContainsAll(members []string) bool {
	for _, m := range members {
		if !c.HasMember(m) {
			return false
		}
	}
	return true
}

// Message is a single immutable entry in a conversation.
type Message struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	ConversationID string    `json:"conversation_id" bson:"conversation_id"`
	Sender         string    `json:"sender" bson:"sender"`
	Body           string    `json:"message" bson:"message"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}
