package templates

import (
	"context"
	"sync"
)

// Source provides the template set registered for an event.
type Source interface {
	Lookup(ctx context.Context, event string) (Set, bool, error)
}

// MemorySource keeps template sets in memory.
type MemorySource struct {
	mu   sync.RWMutex
	sets map[string]Set
}

func NewMemorySource() *MemorySource {
	return &MemorySource{sets: make(map[string]Set)}
}

// Register stores set for event, replacing any previous one.
func (s *MemorySource) Register(event string, set Set) error {
	if event == "" {
		return ErrEmptyEvent
	}
	if err := set.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[event] = set.Clone()
	return nil
}

func (s *MemorySource) Lookup(_ context.Context, event string) (Set, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[event]
	if !ok {
		return nil, false, nil
	}
	return set.Clone(), true, nil
}

// Events lists the registered event names.
func (s *MemorySource) Events() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.sets))
	for e := range s.sets {
		out = append(out, e)
	}
	return out
}
