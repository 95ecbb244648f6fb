package notifications

import (
	"context"
	"time"
)

// Contact holds the delivery addresses of a user. Empty fields are absent.
type Contact struct {
	Email       string
	PhoneNumber string
	FCMToken    string
}

// ContactLookup resolves a user's contact details.
// Unknown users yield ErrContactNotFound.
type ContactLookup interface {
	Get(ctx context.Context, userID string) (Contact, error)
}

// TokenLookup resolves a push token when the contact has none.
// Unknown users yield ErrTokenNotFound.
type TokenLookup interface {
	Get(ctx context.Context, userID string) (string, error)
}

// EmailTransport reports whether the message was accepted for delivery.
type EmailTransport interface {
	Send(ctx context.Context, address, body, subject string) (bool, error)
}

// SMSTransport reports whether the message was accepted for delivery.
type SMSTransport interface {
	Send(ctx context.Context, phone, body string) (bool, error)
}

// PushTransport signals failure by returning an error.
type PushTransport interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// InAppPublisher forwards in-app records to live subscribers.
type InAppPublisher interface {
	Publish(ctx context.Context, rec Record) error
}

// RecordStore persists records keyed by idempotency key.
type RecordStore interface {
	// Create stores rec if its idempotency key is unused, otherwise returns ErrRecordExists.
	Create(ctx context.Context, rec Record) error

	// UpdateStatus moves a pending record to a terminal status.
	// Non-pending records yield ErrInvalidTransition, unknown keys ErrRecordNotFound.
	UpdateStatus(ctx context.Context, key string, status Status, reason string) error

	Get(ctx context.Context, key string) (*Record, error)

	// List returns a user's records, newest first.
	List(ctx context.Context, userID string, opts ListOptions) ([]Record, error)
}

// ListOptions provides filtering and pagination for List.
type ListOptions struct {
	Limit   int // 0 = no limit
	Offset  int
	Channel Channel    // empty = any channel
	Status  Status     // empty = any status
	Event   string     // empty = any event
	Since   *time.Time // only records created at or after Since
}

// Matches reports whether rec passes the filters of opts.
func (o ListOptions) Matches(rec Record) bool {
	if o.Channel != "" && rec.Channel != o.Channel {
		return false
	}
	if o.Status != "" && rec.Status != o.Status {
		return false
	}
	if o.Event != "" && rec.Event != o.Event {
		return false
	}
	if o.Since != nil && rec.CreatedAt.Before(*o.Since) {
		return false
	}
	return true
}

// Observer receives dispatch lifecycle signals, typically for metrics.
type Observer interface {
	DispatchHandled(event string, outcome Outcome)
	RecordCreated(channel Channel)
	DeliveryStarted(channel Channel)
	DeliveryFinished(channel Channel, status Status, took time.Duration)
}

// Outcome classifies how Dispatch ended.
type Outcome string

const (
	OutcomeAccepted     Outcome = "accepted"
	OutcomeInvalid      Outcome = "invalid"
	OutcomeUnknownUser  Outcome = "unknown_user"
	OutcomeLookupFailed Outcome = "lookup_failed"
	OutcomeCreateFailed Outcome = "create_failed"
	OutcomeDuplicate    Outcome = "duplicate"
)

type noopObserver struct{}

func (noopObserver) DispatchHandled(string, Outcome)                 {}
func (noopObserver) RecordCreated(Channel)                           {}
func (noopObserver) DeliveryStarted(Channel)                         {}
func (noopObserver) DeliveryFinished(Channel, Status, time.Duration) {}
