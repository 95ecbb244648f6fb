package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/templates"
)

const (
	ReasonNoEmail = "No Email"
	ReasonNoPhone = "No Phone"
	ReasonNoToken = "No FCM token"
)

func (d *Dispatcher) deliver(ctx context.Context, rec Record, contact Contact) {
	start := time.Now()
	d.observer.DeliveryStarted(rec.Channel)

	status, reason := d.attempt(ctx, rec, contact)
	d.finish(ctx, rec, status, reason)

	d.observer.DeliveryFinished(rec.Channel, status, time.Since(start))
}

// attempt converts every failure, including panics, into a failed status.
func (d *Dispatcher) attempt(ctx context.Context, rec Record, contact Contact) (status Status, reason string) {
	defer func() {
		if r := recover(); r != nil {
			status, reason = StatusFailed, fmt.Sprint(r)
		}
	}()

	ok, reason, err := d.send(ctx, rec, contact)
	switch {
	case err != nil:
		return StatusFailed, err.Error()
	case !ok:
		return StatusFailed, reason
	default:
		return StatusSent, ""
	}
}

func (d *Dispatcher) send(ctx context.Context, rec Record, contact Contact) (bool, string, error) {
	switch rec.Channel {
	case ChannelEmail:
		if contact.Email == "" {
			return false, ReasonNoEmail, nil
		}
		if d.email == nil {
			return false, notConfigured(rec.Channel), nil
		}
		ok, err := d.email.Send(ctx, contact.Email, rec.Message, rec.Title)
		return ok, "", err

	case ChannelSMS:
		if contact.PhoneNumber == "" {
			return false, ReasonNoPhone, nil
		}
		if d.sms == nil {
			return false, notConfigured(rec.Channel), nil
		}
		ok, err := d.sms.Send(ctx, contact.PhoneNumber, rec.Message)
		return ok, "", err

	case ChannelInApp:
		d.publishInApp(ctx, rec)
		return true, "", nil

	case ChannelPush:
		token, err := d.pushToken(ctx, rec.UserID, contact)
		if err != nil {
			return false, "", err
		}
		if token == "" {
			return false, ReasonNoToken, nil
		}
		if d.push == nil {
			return false, notConfigured(rec.Channel), nil
		}
		title := rec.Title
		if title == "" {
			title = templates.DefaultSubject
		}
		if err := d.push.Send(ctx, token, title, rec.Message, rec.Metadata.Strings()); err != nil {
			return false, "", err
		}
		return true, "", nil
	}

	return false, "", fmt.Errorf("unsupported channel %q", rec.Channel)
}

// pushToken prefers the contact's own token over the token store.
func (d *Dispatcher) pushToken(ctx context.Context, userID string, contact Contact) (string, error) {
	if contact.FCMToken != "" {
		return contact.FCMToken, nil
	}
	if d.tokens == nil {
		return "", nil
	}
	token, err := d.tokens.Get(ctx, userID)
	if errors.Is(err, ErrTokenNotFound) {
		return "", nil
	}
	return token, err
}

func (d *Dispatcher) publishInApp(ctx context.Context, rec Record) {
	if d.inApp == nil {
		return
	}
	rec.Status = StatusSent
	if err := d.inApp.Publish(ctx, rec); err != nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish in-app notification",
			logger.UserID(rec.UserID),
			logger.IdempotencyKey(rec.IdempotencyKey),
			logger.Error(err),
		)
	}
}

func (d *Dispatcher) finish(ctx context.Context, rec Record, status Status, reason string) {
	if err := ValidateTransition(rec.Status, status); err != nil {
		d.logger.LogAttrs(ctx, slog.LevelError, "refusing status update",
			logger.IdempotencyKey(rec.IdempotencyKey),
			logger.Error(err),
		)
		return
	}

	if status == StatusFailed {
		d.logger.LogAttrs(ctx, slog.LevelError, "notification delivery failed",
			logger.UserID(rec.UserID),
			logger.Event(rec.Event),
			logger.Channel(string(rec.Channel)),
			logger.IdempotencyKey(rec.IdempotencyKey),
			logger.Reason(reason),
		)
	} else {
		d.logger.LogAttrs(ctx, slog.LevelDebug, "notification delivered",
			logger.Channel(string(rec.Channel)),
			logger.IdempotencyKey(rec.IdempotencyKey),
		)
	}

	if err := d.store.UpdateStatus(ctx, rec.IdempotencyKey, status, reason); err != nil {
		d.logger.LogAttrs(ctx, slog.LevelError, "failed to update notification status",
			logger.IdempotencyKey(rec.IdempotencyKey),
			logger.Status(string(status)),
			logger.Error(err),
		)
	}
}

func notConfigured(c Channel) string {
	return string(c) + " transport not configured"
}
