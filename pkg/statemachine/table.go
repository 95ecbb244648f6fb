package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// Table is an immutable set of transitions keyed by source state and event.
type Table struct {
	edges map[string]map[string][]Transition
}

// Option adds transitions to a table under construction.
type Option func(*Table) error

// TransitionOption attaches guards or actions to a transition.
type TransitionOption func(*Transition)

// WithGuard attaches a guard to a transition.
func WithGuard(g Guard) TransitionOption {
	return func(t *Transition) {
		if g != nil {
			t.Guards = append(t.Guards, g)
		}
	}
}

// WithAction attaches an action to a transition.
func WithAction(a Action) TransitionOption {
	return func(t *Transition) {
		if a != nil {
			t.Actions = append(t.Actions, a)
		}
	}
}

// WithTransition registers an edge from -> to fired by event.
func WithTransition(from, to State, event Event, opts ...TransitionOption) Option {
	return func(tb *Table) error {
		if from == nil || to == nil || event == nil {
			return ErrInvalidTransition
		}
		tr := Transition{From: from, To: to, Event: event}
		for _, opt := range opts {
			opt(&tr)
		}
		if tb.edges[from.Name()] == nil {
			tb.edges[from.Name()] = make(map[string][]Transition)
		}
		tb.edges[from.Name()][event.Name()] = append(tb.edges[from.Name()][event.Name()], tr)
		return nil
	}
}

// NewTable builds a table from options.
func NewTable(opts ...Option) (*Table, error) {
	tb := &Table{edges: make(map[string]map[string][]Transition)}
	for _, opt := range opts {
		if err := opt(tb); err != nil {
			return nil, err
		}
	}
	return tb, nil
}

// MustNewTable works like NewTable but panics on error.
func MustNewTable(opts ...Option) *Table {
	tb, err := NewTable(opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to build state machine table: %v", err))
	}
	return tb
}

// Start returns a machine positioned at state.
func (tb *Table) Start(state State) *Machine {
	return &Machine{table: tb, initial: state, current: state}
}

// Targets lists the states reachable from state through any event, guards ignored.
func (tb *Table) Targets(state State) []State {
	var out []State
	for _, trs := range tb.edges[state.Name()] {
		for _, tr := range trs {
			out = append(out, tr.To)
		}
	}
	return out
}

// find returns the first transition for (from, event) whose guards all pass.
func (tb *Table) find(ctx context.Context, from State, event Event, data any) (*Transition, error) {
	trs := tb.edges[from.Name()][event.Name()]
	if len(trs) == 0 {
		return nil, NewErrNoTransitionAvailable(from.Name(), event.Name())
	}
	for i := range trs {
		if guardsPass(ctx, trs[i].Guards, from, event, data) {
			return &trs[i], nil
		}
	}
	return nil, NewErrTransitionRejected(from.Name(), event.Name())
}

func guardsPass(ctx context.Context, guards []Guard, from State, event Event, data any) bool {
	for _, g := range guards {
		if !g(ctx, from, event, data) {
			return false
		}
	}
	return true
}

// Machine is a running instance of a Table. It is safe for concurrent use.
type Machine struct {
	table   *Table
	initial State
	current State
	mu      sync.RWMutex
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Fire applies event to the current state.
func (m *Machine) Fire(ctx context.Context, event Event, data any) error {
	if event == nil {
		return ErrInvalidEvent
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tr, err := m.table.find(ctx, m.current, event, data)
	if err != nil {
		return err
	}

	for _, action := range tr.Actions {
		if err := action(ctx, m.current, tr.To, event, data); err != nil {
			return fmt.Errorf("action failed: %w", err)
		}
	}

	m.current = tr.To
	return nil
}

// CanFire reports whether Fire would find an allowed transition.
func (m *Machine) CanFire(ctx context.Context, event Event, data any) bool {
	if event == nil {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := m.table.find(ctx, m.current, event, data)
	return err == nil
}

// Reset moves the machine back to the state it was started at.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}
