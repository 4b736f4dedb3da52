package notify

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/stashspace/booking-system/internal/core/ports"
)

func TestDispatcher_ShardIndexIsStableAndInRange(t *testing.T) {
	d := NewDispatcher(4, NewPresence(&stubSocketStore{}), zerolog.Nop())

	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("conv_%d", i)
		first := d.shardIndex(id)
		if first < 0 || first >= len(d.workers) {
			t.Fatalf("shard index %d out of range for %s", first, id)
		}
		if second := d.shardIndex(id); second != first {
			t.Fatalf("shard index for %s not stable: %d then %d", id, first, second)
		}
	}
}

func TestDispatcher_EnqueueKeepsConversationOrder(t *testing.T) {
	d := NewDispatcher(4, NewPresence(&stubSocketStore{}), zerolog.Nop())

	for i := 0; i < 3; i++ {
		d.BookingCreated(ports.BookingCreatedEvent{
			EventID:        fmt.Sprintf("e%d", i),
			ConversationID: "conv_1",
		})
	}

	ch := d.workers[d.shardIndex("conv_1")]
	if len(ch) != 3 {
		t.Fatalf("expected 3 queued events on one shard, got %d", len(ch))
	}
	for i := 0; i < 3; i++ {
		event := <-ch
		if want := fmt.Sprintf("e%d", i); event.EventID != want {
			t.Fatalf("expected %s at position %d, got %s", want, i, event.EventID)
		}
	}
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	d := NewDispatcher(1, NewPresence(&stubSocketStore{}), zerolog.Nop())

	// one past capacity; the surplus event must be dropped, not block
	for i := 0; i <= channelBuffer; i++ {
		d.BookingCreated(ports.BookingCreatedEvent{
			EventID:        fmt.Sprintf("e%d", i),
			ConversationID: "conv_1",
		})
	}

	if len(d.workers[0]) != channelBuffer {
		t.Fatalf("expected queue capped at %d, got %d", channelBuffer, len(d.workers[0]))
	}
}
