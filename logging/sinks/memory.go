package sinks

import (
	"context"
	"sync"

	"duskhollow/server/logging"
)

// Memory retains events for inspection in tests.
type Memory struct {
	mu     sync.Mutex
	events []logging.Event
}

func NewMemory() *Memory { return &Memory{} }

func (s *Memory) Write(event logging.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *Memory) Close(context.Context) error { return nil }

// Events returns a copy of everything written so far.
func (s *Memory) Events() []logging.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]logging.Event(nil), s.events...)
}

// EventsOfType filters the retained events by type.
func (s *Memory) EventsOfType(t logging.EventType) []logging.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []logging.Event
	for _, event := range s.events {
		if event.Type == t {
			out = append(out, event)
		}
	}
	return out
}
