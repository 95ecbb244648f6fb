// Package statemachine implements small finite state machines built from a
// transition table.
//
// A Table holds immutable transition definitions and can be shared between
// goroutines. Each Table.Start call returns an independent Machine positioned
// at any state of the table, which makes it suitable for validating lifecycle
// changes of persisted entities whose current state is loaded from storage:
//
//	table, err := statemachine.NewTable(
//	    statemachine.WithTransition(Pending, Sent, Deliver),
//	    statemachine.WithTransition(Pending, Failed, Fail),
//	)
//	m := table.Start(current)
//	if err := m.Fire(ctx, Deliver, nil); err != nil { ... }
//
// Guards can veto a transition and actions run, in order, before the state
// changes. A failing action aborts the transition.
package statemachine
