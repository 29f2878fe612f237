// Package memory provides in-memory implementations of driven storage
// ports, used in tests and for ephemeral corpora.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/culturo-labs/culturo-cli/internal/core/domain"
	"github.com/culturo-labs/culturo-cli/internal/core/ports/driven"
)

// Ensure EventStore implements the interface.
var _ driven.EventStore = (*EventStore)(nil)

// EventStore is an in-memory implementation of driven.EventStore.
type EventStore struct {
	mu     sync.RWMutex
	events map[string]domain.RawEvent
}

// NewEventStore creates a new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{events: make(map[string]domain.RawEvent)}
}

// SaveEvents stores or replaces events by ID.
func (s *EventStore) SaveEvents(_ context.Context, events []domain.RawEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range events {
		s.events[ev.ID] = ev
	}
	return nil
}

// ListEvents returns the full corpus, ordered by event ID for
// deterministic rebuilds.
func (s *EventStore) ListEvents(_ context.Context) ([]domain.RawEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]domain.RawEvent, 0, len(s.events))
	for _, ev := range s.events {
		events = append(events, ev)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

// Count returns the number of stored events.
func (s *EventStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events), nil
}

// Close releases resources.
func (s *EventStore) Close() error {
	return nil
}
