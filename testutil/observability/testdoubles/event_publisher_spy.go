package testdoubles

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
)

// EventPublisherSpy records every published event.
type EventPublisherSpy struct {
	mu     sync.Mutex
	events core.DomainEvents
}

func NewEventPublisherSpy() *EventPublisherSpy {
	return &EventPublisherSpy{}
}

func (s *EventPublisherSpy) Publish(_ context.Context, events ...core.DomainEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, events...)
}

// Events returns a copy of the published events in publishing order.
func (s *EventPublisherSpy) Events() core.DomainEvents {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append(core.DomainEvents(nil), s.events...)
}

// EventTypes returns the event types in publishing order.
func (s *EventPublisherSpy) EventTypes() []string {
	events := s.Events()
	types := make([]string, 0, len(events))

	for _, event := range events {
		types = append(types, event.IsEventType())
	}

	return types
}
