package notifications

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/notifykit/pkg/statemachine"
)

// Status is the lifecycle state of a Record.
type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// Statuses returns every delivery status.
func Statuses() []Status {
	return []Status{StatusPending, StatusSent, StatusFailed}
}

// Name implements statemachine.State.
func (s Status) Name() string { return string(s) }

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusSent || s == StatusFailed
}

func (s Status) IsTerminal() bool {
	return s == StatusSent || s == StatusFailed
}

const (
	eventDelivered statemachine.StringEvent = "delivered"
	eventFailed    statemachine.StringEvent = "failed"
)

var statusTable = statemachine.MustNewTable(
	statemachine.WithTransition(StatusPending, StatusSent, eventDelivered),
	statemachine.WithTransition(StatusPending, StatusFailed, eventFailed),
)

// ValidateTransition returns ErrInvalidTransition unless from -> to is
// pending -> sent or pending -> failed.
func ValidateTransition(from, to Status) error {
	var event statemachine.Event
	switch to {
	case StatusSent:
		event = eventDelivered
	case StatusFailed:
		event = eventFailed
	default:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	if err := statusTable.Start(from).Fire(context.Background(), event, nil); err != nil {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
