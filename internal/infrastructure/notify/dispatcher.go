package notify

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/stashspace/booking-system/internal/core/ports"
	"github.com/stashspace/booking-system/internal/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher fans booking-created events out to online participants. Events
// are sharded onto a fixed set of workers by conversation id so that
// notifications for one thread are delivered in order. Delivery is
// best-effort: a full channel drops the event rather than blocking the
// booking flow.
type Dispatcher struct {
	workers  []chan ports.BookingCreatedEvent
	presence *Presence
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, presence *Presence, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.BookingCreatedEvent, numWorkers),
		presence: presence,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.BookingCreatedEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// BookingCreated enqueues an event for fan-out. Implements
// ports.BookingNotifier.
func (d *Dispatcher) BookingCreated(event ports.BookingCreatedEvent) {
	select {
	case d.workers[d.shardIndex(event.ConversationID)] <- event:
	default:
		d.log.Warn().Str("booking_id", event.BookingID).Msg("notification queue full, event dropped")
	}
}

// shardIndex maps a conversation id deterministically to a worker index.
func (d *Dispatcher) shardIndex(conversationID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(conversationID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.BookingCreatedEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			d.deliver(event, id)
		}
	}
}

// deliver notifies every participant who is currently online. Offline
// participants see the booking in their thread on next login, so a skip is
// not an error.
func (d *Dispatcher) deliver(event ports.BookingCreatedEvent, workerID int) {
	recipients := append([]string{event.UserID, event.OwnerID}, event.Managers...)
	for _, userID := range recipients {
		if !d.presence.IsOnline(userID) {
			metrics.NotificationsDeliveredTotal.WithLabelValues("skipped").Inc()
			continue
		}
		metrics.NotificationsDeliveredTotal.WithLabelValues("delivered").Inc()
		d.log.Info().
			Str("event_id", event.EventID).
			Str("booking_id", event.BookingID).
			Str("conversation_id", event.ConversationID).
			Str("user_id", userID).
			Int("worker_id", workerID).
			Msg("booking notification delivered")
	}
}
