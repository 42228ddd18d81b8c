package realtime

import "sync"

type subscription struct {
	id uint64
	fn func(Envelope)
}

// dispatcher fans one inbound event out to every registered handler.
// Handlers run synchronously on the read loop goroutine, in registration
// order.
type dispatcher struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[EventType][]subscription
}

func newDispatcher() *dispatcher {
	return &dispatcher{subs: make(map[EventType][]subscription)}
}

// on registers a handler and returns its unsubscribe func. Unsubscribing is
// the caller's responsibility; a forgotten handler keeps its closure alive
// for the life of the client.
func (d *dispatcher) on(eventType EventType, fn func(Envelope)) func() {
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.subs[eventType] = append(d.subs[eventType], subscription{id: id, fn: fn})
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		subs := d.subs[eventType]
		for i, sub := range subs {
			if sub.id == id {
				d.subs[eventType] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

func (d *dispatcher) dispatch(env Envelope) {
	d.mu.RLock()
	subs := make([]subscription, len(d.subs[env.Type]))
	copy(subs, d.subs[env.Type])
	d.mu.RUnlock()

	for _, sub := range subs {
		sub.fn(env)
	}
}
