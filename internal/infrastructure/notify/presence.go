package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/stashspace/booking-system/internal/metrics"
)

// SocketStore is the durable registry of user/connection bindings.
type SocketStore interface {
	Upsert(ctx context.Context, userID, socketID string) error
	Remove(ctx context.Context, socketID string) error
	All(ctx context.Context) ([]Binding, error)
}

// Binding pairs a user with one live connection id.
type Binding struct {
	UserID   string
	SocketID string
}

// Presence is the process-wide registry of online users. It is a cache:
// the socket store is the source of truth and Rebuild restores the cache
// after a restart. All methods are safe for concurrent use.
type Presence struct {
	store SocketStore

	mu      sync.RWMutex
	sockets map[string]map[string]struct{} // userID -> set of socketIDs
}

func NewPresence(store SocketStore) *Presence {
	return &Presence{
		store:   store,
		sockets: make(map[string]map[string]struct{}),
	}
}

// Rebuild replaces the in-memory state with the store's contents.
func (p *Presence) Rebuild(ctx context.Context) error {
	bindings, err := p.store.All(ctx)
	if err != nil {
		return fmt.Errorf("rebuild presence: %w", err)
	}

	fresh := make(map[string]map[string]struct{}, len(bindings))
	for _, b := range bindings {
		if fresh[b.UserID] == nil {
			fresh[b.UserID] = make(map[string]struct{})
		}
		fresh[b.UserID][b.SocketID] = struct{}{}
	}

	p.mu.Lock()
	p.sockets = fresh
	online := len(p.sockets)
	p.mu.Unlock()

	metrics.PresenceOnline.Set(float64(online))
	return nil
}

// Join registers a connection for the user, durably and in cache.
func (p *Presence) Join(ctx context.Context, userID, socketID string) error {
	if err := p.store.Upsert(ctx, userID, socketID); err != nil {
		return fmt.Errorf("presence join: %w", err)
	}

	p.mu.Lock()
	if p.sockets[userID] == nil {
		p.sockets[userID] = make(map[string]struct{})
	}
	p.sockets[userID][socketID] = struct{}{}
	online := len(p.sockets)
	p.mu.Unlock()

	metrics.PresenceOnline.Set(float64(online))
	return nil
}

// Leave drops a connection. The user stays online while other connections
// remain.
func (p *Presence) Leave(ctx context.Context, socketID string) error {
	if err := p.store.Remove(ctx, socketID); err != nil {
		return fmt.Errorf("presence leave: %w", err)
	}

	p.mu.Lock()
	for userID, conns := range p.sockets {
		if _, ok := conns[socketID]; ok {
			delete(conns, socketID)
			if len(conns) == 0 {
				delete(p.sockets, userID)
			}
		}
	}
	online := len(p.sockets)
	p.mu.Unlock()

	metrics.PresenceOnline.Set(float64(online))
	return nil
}

// IsOnline reports whether the user has at least one live connection.
func (p *Presence) IsOnline(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.sockets[userID]) > 0
}
