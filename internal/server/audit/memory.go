package audit

import (
	"context"
	"sync"
)

// Entry is one recorded event held by MemorySink.
type Entry struct {
	Event   string
	Details map[string]any
}

// MemorySink collects events in memory. Used by tests and by runs without a
// database.
type MemorySink struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Record(_ context.Context, event string, details map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make(map[string]any, len(details))
	for k, v := range details {
		copied[k] = v
	}
	s.entries = append(s.entries, Entry{Event: event, Details: copied})
}

// Entries returns a snapshot of everything recorded so far.
func (s *MemorySink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

var _ Sink = (*MemorySink)(nil)
