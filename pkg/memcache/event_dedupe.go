// pkg/memcache/event_dedupe.go
package memcache

import (
	"sync"
	"time"
)

// EventDedupeStore suppresses duplicate Pub/Sub deliveries of the same
// notification message. Reconciliation itself is idempotent (state is always
// re-fetched from the provider), so this only saves redundant API calls;
// losing the store on restart is harmless.
// Callers check Seen before doing the work and MarkProcessed only once the
// outcome is final. Marking up front would swallow the redelivery that a
// transient failure relies on.
type EventDedupeStore interface {
	// Seen reports whether the id was recorded and is still within its ttl.
	Seen(messageID string) bool
	// MarkProcessed records the id and reports whether it was already seen.
	MarkProcessed(messageID string, ttl time.Duration) (alreadySeen bool)
}

type EventDedupe struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

func NewEventDedupe() *EventDedupe {
	return &EventDedupe{
		seen: make(map[string]time.Time),
	}
}

func (s *EventDedupe) Seen(messageID string) bool {
	if messageID == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.seen[messageID]
	return ok && time.Now().Before(exp)
}

func (s *EventDedupe) MarkProcessed(messageID string, ttl time.Duration) bool {
	if messageID == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	// Opportunistic cleanup so the map does not grow without bound.
	for id, exp := range s.seen {
		if now.After(exp) {
			delete(s.seen, id)
		}
	}

	if exp, ok := s.seen[messageID]; ok && now.Before(exp) {
		return true
	}
	s.seen[messageID] = now.Add(ttl)
	return false
}
