// Package memory provides an in-process event store. Events are kept in
// insertion order, which is the order Search returns them in.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/travel-desk/internal/types"
)

// Store is a thread-safe in-memory event store.
type Store struct {
	mu     sync.RWMutex
	events []types.Event
}

// New creates an empty store, optionally seeded with events. Seeded events
// without an ID get one.
func New(seed ...types.Event) *Store {
	s := &Store{}
	for _, ev := range seed {
		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}
		s.events = append(s.events, ev)
	}
	return s
}

// Search returns copies of all events overlapping [start, end).
func (s *Store) Search(_ context.Context, start, end time.Time) ([]types.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found []types.Event
	for _, ev := range s.events {
		if ev.Overlaps(start, end) {
			found = append(found, ev)
		}
	}
	return found, nil
}

// Create appends ev with a fresh ID.
func (s *Store) Create(_ context.Context, ev types.Event) (types.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev.ID = uuid.NewString()
	s.events = append(s.events, ev)
	return ev, nil
}

// Update replaces the event with the same ID.
func (s *Store) Update(_ context.Context, ev types.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.events {
		if s.events[i].ID == ev.ID {
			s.events[i] = ev
			return nil
		}
	}
	return fmt.Errorf("event %s not found", ev.ID)
}

// Delete removes the event with the given ID.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.events {
		if s.events[i].ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("event %s not found", id)
}

// All returns a copy of every stored event in store order.
func (s *Store) All() []types.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Event(nil), s.events...)
}

// Len returns the number of stored events.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
