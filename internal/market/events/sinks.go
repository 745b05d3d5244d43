package events

import (
	"context"
	"log/slog"
	"sync"
)

// MemorySink records events for inspection. Used in tests and as an
// in-process event log for the dev wiring.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{events: make([]Event, 0, 64)}
}

func (s *MemorySink) Publish(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// SlogSink writes events to the structured log.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Publish(ctx context.Context, event Event) error {
	s.logger.InfoContext(ctx, "market event",
		"event_id", event.ID,
		"type", event.Type,
		"actor", event.Actor,
		"collection", event.Collection,
		"token", event.Token,
		"price", event.Price,
	)
	return nil
}
