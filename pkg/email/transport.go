package email

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

const defaultSubject = "Notification"

// Transport adapts an EmailSender to the dispatcher's email channel.
type Transport struct {
	sender EmailSender
	tag    string
	logger *slog.Logger
}

type TransportOption func(*Transport)

// WithTag sets the provider tag attached to every message.
func WithTag(tag string) TransportOption {
	return func(t *Transport) { t.tag = tag }
}

func WithLogger(l *slog.Logger) TransportOption {
	return func(t *Transport) {
		if l != nil {
			t.logger = l
		}
	}
}

func NewTransport(sender EmailSender, opts ...TransportOption) *Transport {
	t := &Transport{sender: sender, logger: slog.Default()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send reports false without an error when the provider declines the message.
// An empty subject is replaced with "Notification".
func (t *Transport) Send(ctx context.Context, address, body, subject string) (bool, error) {
	if subject == "" {
		subject = defaultSubject
	}

	err := t.sender.SendEmail(ctx, SendEmailParams{
		SendTo:   address,
		Subject:  subject,
		BodyHTML: body,
		Tag:      t.tag,
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrDeclined):
		t.logger.LogAttrs(ctx, slog.LevelWarn, "email declined by provider",
			logger.Component("email"),
			logger.Error(err),
		)
		return false, nil
	default:
		return false, err
	}
}
