package notifications

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/templates"
)

// Channel is a delivery medium.
type Channel string

const (
	ChannelEmail Channel = templates.ChannelEmail
	ChannelSMS   Channel = templates.ChannelSMS
	ChannelInApp Channel = templates.ChannelInApp
	ChannelPush  Channel = templates.ChannelPush
)

// Channels returns the fixed set attempted for every event, in dispatch order.
func Channels() []Channel {
	return []Channel{ChannelEmail, ChannelSMS, ChannelInApp, ChannelPush}
}

// Valid reports whether c is one of Channels.
func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelInApp, ChannelPush:
		return true
	}
	return false
}

// Priority represents the notification priority level.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityUrgent
)

var priorityNames = [...]string{"low", "normal", "high", "urgent"}

func (p Priority) String() string {
	if p < PriorityLow || p > PriorityUrgent {
		return fmt.Sprintf("priority(%d)", int(p))
	}
	return priorityNames[p]
}

func (p Priority) MarshalText() ([]byte, error) {
	if p < PriorityLow || p > PriorityUrgent {
		return nil, fmt.Errorf("%w: priority %d", ErrInvalidRequest, int(p))
	}
	return []byte(priorityNames[p]), nil
}

func (p *Priority) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range priorityNames {
		if n == name {
			*p = Priority(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown priority %q", ErrInvalidRequest, name)
}

// EventConfig classifies an event.
type EventConfig struct {
	Type     string   `json:"type" yaml:"type"`
	Priority Priority `json:"priority" yaml:"priority"`
}

// Record tracks one channel of one dispatch.
type Record struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	Event          string            `json:"event"`
	Type           string            `json:"type"`
	Channel        Channel           `json:"channel"`
	Title          string            `json:"title"`
	Message        string            `json:"message"`
	Priority       Priority          `json:"priority"`
	Status         Status            `json:"status"`
	Reason         string            `json:"reason,omitempty"`
	IsRead         bool              `json:"is_read"`
	IdempotencyKey string            `json:"idempotency_key"`
	Metadata       templates.Payload `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ChannelKey derives the per-channel idempotency key from a base key.
func ChannelKey(base string, c Channel) string {
	return base + "_" + string(c)
}
