package events

import (
	"encoding/json"
	"sync"

	"github.com/jfigueroa/stockcore/pkg/logger"
)

// Observer is one connected consumer of domain events. Send must be safe to
// call from multiple goroutines; a non-nil error drops the observer from the
// registry.
type Observer interface {
	ID() string
	Send(payload []byte) error
}

// Broadcaster fans domain events out to the currently connected observers.
// Delivery is best effort: a failing observer is removed and never blocks
// delivery to the rest. The registry is explicitly owned by whoever
// constructs the broadcaster; tests build a fresh one per case.
type Broadcaster struct {
	log *logger.Logger

	mu        sync.RWMutex
	observers map[string]Observer
}

// NewBroadcaster builds an empty registry.
func NewBroadcaster(log *logger.Logger) *Broadcaster {
	return &Broadcaster{
		log:       log,
		observers: make(map[string]Observer),
	}
}

// Subscribe registers an observer. Re-subscribing the same id replaces the
// previous registration.
func (b *Broadcaster) Subscribe(o Observer) {
	b.mu.Lock()
	b.observers[o.ID()] = o
	b.mu.Unlock()
	b.log.Debug().Str("observer", o.ID()).Msg("observer subscribed")
}

// Unsubscribe removes an observer; unknown ids are a no-op.
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	delete(b.observers, id)
	b.mu.Unlock()
	b.log.Debug().Str("observer", id).Msg("observer unsubscribed")
}

// Count returns the number of connected observers.
func (b *Broadcaster) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.observers)
}

// Broadcast serializes the event once and delivers it to every observer.
// It makes no ordering promise of its own; a producer that needs per-key
// ordering holds its own key serialization across the call (the ledger does
// this for low-stock alerts).
func (b *Broadcaster) Broadcast(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		b.log.Error().Err(err).Str("event", ev.EventType()).Msg("marshal event")
		return
	}

	b.mu.RLock()
	targets := make([]Observer, 0, len(b.observers))
	for _, o := range b.observers {
		targets = append(targets, o)
	}
	b.mu.RUnlock()

	var failed []string
	for _, o := range targets {
		if err := o.Send(payload); err != nil {
			b.log.Warn().Err(err).Str("observer", o.ID()).Str("event", ev.EventType()).
				Msg("observer send failed, dropping")
			failed = append(failed, o.ID())
		}
	}

	if len(failed) > 0 {
		b.mu.Lock()
		for _, id := range failed {
			delete(b.observers, id)
		}
		b.mu.Unlock()
	}
}
