package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// outboxEntry is one durable emission waiting for a connection.
type outboxEntry struct {
	ID         uuid.UUID
	Env        Envelope
	EnqueuedAt time.Time
}

// outbox queues durable emissions made while disconnected and is flushed
// FIFO on every reconnect. It is bounded: when full, the oldest entry is
// dropped. Ephemeral emissions (typing) never enter the outbox.
type outbox struct {
	mu       sync.Mutex
	entries  []outboxEntry
	capacity int
	clock    clockwork.Clock
}

func newOutbox(capacity int, clock clockwork.Clock) *outbox {
	return &outbox{capacity: capacity, clock: clock}
}

func (o *outbox) enqueue(env Envelope) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.append(env)
}

// enqueueJoin queues a join, replacing any pending join so at most one room
// membership emission is ever outstanding.
func (o *outbox) enqueueJoin(env Envelope) {
	o.mu.Lock()
	defer o.mu.Unlock()

	kept := o.entries[:0]
	for _, entry := range o.entries {
		if entry.Env.Type == EmitJoinRoom {
			continue
		}
		kept = append(kept, entry)
	}
	o.entries = kept
	o.append(env)
}

// removeJoin drops a pending join for a room, if one is queued.
func (o *outbox) removeJoin(roomID string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	kept := o.entries[:0]
	for _, entry := range o.entries {
		if entry.Env.Type == EmitJoinRoom && entry.Env.RoomID == roomID {
			continue
		}
		kept = append(kept, entry)
	}
	o.entries = kept
}

// drain empties the outbox and returns the entries in enqueue order.
func (o *outbox) drain() []outboxEntry {
	o.mu.Lock()
	defer o.mu.Unlock()

	entries := o.entries
	o.entries = nil
	return entries
}

func (o *outbox) len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.entries)
}

// append assumes o.mu is held.
func (o *outbox) append(env Envelope) {
	if o.capacity > 0 && len(o.entries) >= o.capacity {
		dropped := o.entries[0]
		o.entries = o.entries[1:]
		log.Warn().
			Str("event_type", string(dropped.Env.Type)).
			Str("room_id", dropped.Env.RoomID).
			Msg("outbox full, dropping oldest emission")
	}

	o.entries = append(o.entries, outboxEntry{
		ID:         uuid.New(),
		Env:        env,
		EnqueuedAt: o.clock.Now(),
	})
}
