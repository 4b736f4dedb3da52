package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/stashspace/booking-system/internal/core/domain"
)

func newConversationFixture() (*stubConversationRepo, *ConversationService) {
	repo := &stubConversationRepo{}
	return repo, NewConversationService(repo, zerolog.Nop())
}

func TestBootstrap_BuildsNewConversation(t *testing.T) {
	_, svc := newConversationFixture()

	conv, reused, err := svc.Bootstrap(context.Background(), "u1", "owner1", []string{"m1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reused {
		t.Fatal("a fresh conversation must not be reported as reused")
	}
	want := []string{"u1", "owner1", "m1"}
	if len(conv.Members) != len(want) {
		t.Fatalf("expected members %v, got %v", want, conv.Members)
	}
	for i, id := range want {
		if conv.Members[i] != id {
			t.Fatalf("expected members %v, got %v", want, conv.Members)
		}
	}
}

func TestBootstrap_DeduplicatesMembers(t *testing.T) {
	_, svc := newConversationFixture()

	// the owner also manages their own space
	conv, _, err := svc.Bootstrap(context.Background(), "u1", "owner1", []string{"owner1", "m1", "m1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conv.Members) != 3 {
		t.Fatalf("expected deduplicated members [u1 owner1 m1], got %v", conv.Members)
	}
}

func TestBootstrap_ReusesPairThreadOnlyForPairBooking(t *testing.T) {
	repo, svc := newConversationFixture()
	repo.convs = append(repo.convs, &domain.Conversation{
		ID:      "conv_pair",
		Members: []string{"u1", "owner1"},
	})

	conv, reused, err := svc.Bootstrap(context.Background(), "u1", "owner1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reused || conv.ID != "conv_pair" {
		t.Fatalf("expected conv_pair reused, got %s reused=%v", conv.ID, reused)
	}

	conv, reused, err = svc.Bootstrap(context.Background(), "u1", "owner1", []string{"m1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reused {
		t.Fatalf("pair thread must not serve a booking with managers, got %s", conv.ID)
	}
}

func TestBootstrap_ReusesCoveringGroupThread(t *testing.T) {
	repo, svc := newConversationFixture()
	repo.convs = append(repo.convs, &domain.Conversation{
		ID:      "conv_group",
		Members: []string{"u1", "owner1", "m1"},
	})

	conv, reused, err := svc.Bootstrap(context.Background(), "u1", "owner1", []string{"m1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reused || conv.ID != "conv_group" {
		t.Fatalf("expected conv_group reused, got %s reused=%v", conv.ID, reused)
	}

	// a group thread missing an intended manager does not cover the booking
	_, reused, err = svc.Bootstrap(context.Background(), "u1", "owner1", []string{"m1", "m2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reused {
		t.Fatal("thread missing an intended member must not be reused")
	}
}

func TestStartConversation_CreatesOncePerPair(t *testing.T) {
	repo, svc := newConversationFixture()

	first, err := svc.StartConversation(context.Background(), "u1", "u2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.StartConversation(context.Background(), "u1", "u2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected the same pair thread, got %s and %s", first.ID, second.ID)
	}
	if len(repo.convs) != 1 {
		t.Fatalf("expected one stored conversation, got %d", len(repo.convs))
	}
}

func TestAddMember_ExistingMemberIsNoOp(t *testing.T) {
	repo, svc := newConversationFixture()
	repo.convs = append(repo.convs, &domain.Conversation{
		ID:      "c1",
		Members: []string{"u1", "u2"},
	})

	if err := svc.AddMember(context.Background(), "c1", "u2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.AddMember(context.Background(), "c1", "u3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conv, _ := repo.FindByID(context.Background(), "c1")
	if len(conv.Members) != 3 {
		t.Fatalf("expected members [u1 u2 u3], got %v", conv.Members)
	}
}

func TestSendMessage_RejectsNonMember(t *testing.T) {
	repo, svc := newConversationFixture()
	repo.convs = append(repo.convs, &domain.Conversation{
		ID:      "c1",
		Members: []string{"u1", "u2"},
	})

	_, err := svc.SendMessage(context.Background(), "c1", "intruder", "hello")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(repo.msgs) != 0 {
		t.Fatal("no message may be stored for a non-member")
	}
}

func TestSendMessage_SanitizesBody(t *testing.T) {
	repo, svc := newConversationFixture()
	repo.convs = append(repo.convs, &domain.Conversation{
		ID:      "c1",
		Members: []string{"u1", "u2"},
	})

	msg, err := svc.SendMessage(context.Background(), "c1", "u1", "<script>alert(1)</script> <b>see</b> you at noon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Body != "see you at noon" {
		t.Errorf("expected markup stripped, got %q", msg.Body)
	}
}

func TestConversationMessages_UnknownConversation(t *testing.T) {
	_, svc := newConversationFixture()

	_, err := svc.ConversationMessages(context.Background(), "missing")
	if !errors.Is(err, domain.ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}
