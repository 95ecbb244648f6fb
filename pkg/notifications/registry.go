package notifications

import (
	"fmt"
	"slices"
	"sync"
)

// Registry maps event names to their configuration.
type Registry struct {
	mu     sync.RWMutex
	events map[string]EventConfig
}

// NewRegistry creates a registry seeded with events.
func NewRegistry(events map[string]EventConfig) *Registry {
	r := &Registry{events: make(map[string]EventConfig, len(events))}
	for name, cfg := range events {
		r.events[name] = cfg
	}
	return r
}

func (r *Registry) Register(event string, cfg EventConfig) error {
	if event == "" {
		return fmt.Errorf("%w: event name is required", ErrInvalidRequest)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event] = cfg
	return nil
}

func (r *Registry) Lookup(event string) (EventConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.events[event]
	return cfg, ok
}

// Events returns the registered event names sorted alphabetically.
func (r *Registry) Events() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.events))
	for name := range r.events {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
