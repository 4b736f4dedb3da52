package notify

import (
	"context"
	"errors"
	"testing"
)

type stubSocketStore struct {
	bindings []Binding
	err      error
}

func (s *stubSocketStore) Upsert(ctx context.Context, userID, socketID string) error {
	if s.err != nil {
		return s.err
	}
	for _, b := range s.bindings {
		if b.SocketID == socketID {
			return nil
		}
	}
	s.bindings = append(s.bindings, Binding{UserID: userID, SocketID: socketID})
	return nil
}

func (s *stubSocketStore) Remove(ctx context.Context, socketID string) error {
	if s.err != nil {
		return s.err
	}
	out := s.bindings[:0]
	for _, b := range s.bindings {
		if b.SocketID != socketID {
			out = append(out, b)
		}
	}
	s.bindings = out
	return nil
}

func (s *stubSocketStore) All(ctx context.Context) ([]Binding, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.bindings, nil
}

func TestPresence_JoinLeave(t *testing.T) {
	store := &stubSocketStore{}
	p := NewPresence(store)
	ctx := context.Background()

	if p.IsOnline("u1") {
		t.Fatal("u1 must start offline")
	}

	if err := p.Join(ctx, "u1", "sock1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Join(ctx, "u1", "sock2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.IsOnline("u1") {
		t.Fatal("u1 should be online after joining")
	}

	// one of two connections dropping keeps the user online
	if err := p.Leave(ctx, "sock1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.IsOnline("u1") {
		t.Fatal("u1 should stay online while a connection remains")
	}

	if err := p.Leave(ctx, "sock2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.IsOnline("u1") {
		t.Fatal("u1 should be offline after the last connection drops")
	}
}

func TestPresence_JoinFailsWhenStoreFails(t *testing.T) {
	store := &stubSocketStore{err: errors.New("mongo down")}
	p := NewPresence(store)

	if err := p.Join(context.Background(), "u1", "sock1"); err == nil {
		t.Fatal("expected error when the durable store rejects the binding")
	}
	if p.IsOnline("u1") {
		t.Fatal("cache must not record a binding the store rejected")
	}
}

func TestPresence_Rebuild(t *testing.T) {
	store := &stubSocketStore{bindings: []Binding{
		{UserID: "u1", SocketID: "sock1"},
		{UserID: "u2", SocketID: "sock2"},
	}}
	p := NewPresence(store)

	if err := p.Rebuild(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.IsOnline("u1") || !p.IsOnline("u2") {
		t.Fatal("rebuild should restore all stored bindings")
	}
	if p.IsOnline("u3") {
		t.Fatal("rebuild must not invent bindings")
	}

	// a second rebuild reflects the store's current state, not the cache's
	store.bindings = store.bindings[:1]
	if err := p.Rebuild(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.IsOnline("u2") {
		t.Fatal("rebuild should drop bindings no longer in the store")
	}
}
