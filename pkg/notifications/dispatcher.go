package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/async"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/templates"
)

const abortReason = "dispatch aborted: record creation failed"

// Request describes one notification event for one user.
type Request struct {
	UserID         string            `json:"user_id"`
	Event          string            `json:"event"`
	Payload        templates.Payload `json:"payload,omitempty"`
	IdempotencyKey string            `json:"idempotency_key,omitempty"`
}

// Receipt identifies the records of an accepted dispatch. It carries no
// delivery outcome; poll the RecordStore by key for that.
type Receipt struct {
	BaseKey string             `json:"base_key"`
	Keys    map[Channel]string `json:"keys"`
	Skipped []Channel          `json:"skipped,omitempty"`
}

// Dispatcher orchestrates record creation and per-channel delivery.
type Dispatcher struct {
	registry *Registry
	contacts ContactLookup
	store    RecordStore
	resolver *templates.Resolver
	tokens   TokenLookup
	email    EmailTransport
	sms      SMSTransport
	push     PushTransport
	inApp    InAppPublisher
	observer Observer
	logger   *slog.Logger
	now      func() time.Time

	deliveries async.Group
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithResolver sets the template resolver. Without it every event uses
// templates.DefaultSet.
func WithResolver(r *templates.Resolver) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.resolver = r
		}
	}
}

func WithTokenLookup(t TokenLookup) Option {
	return func(d *Dispatcher) { d.tokens = t }
}

func WithEmailTransport(t EmailTransport) Option {
	return func(d *Dispatcher) { d.email = t }
}

func WithSMSTransport(t SMSTransport) Option {
	return func(d *Dispatcher) { d.sms = t }
}

func WithPushTransport(t PushTransport) Option {
	return func(d *Dispatcher) { d.push = t }
}

// WithInAppPublisher forwards sent in-app records to live subscribers.
func WithInAppPublisher(p InAppPublisher) Option {
	return func(d *Dispatcher) { d.inApp = p }
}

func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		if o != nil {
			d.observer = o
		}
	}
}

// WithClock overrides the time source used for keys and timestamps.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDispatcher creates a dispatcher. Transports are optional; a channel
// without one fails with a "transport not configured" reason.
func NewDispatcher(registry *Registry, contacts ContactLookup, store RecordStore, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		contacts: contacts,
		store:    store,
		observer: noopObserver{},
		logger:   slog.Default(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.resolver == nil {
		d.resolver = templates.NewResolver(nil, templates.WithLogger(d.logger))
	}

	return d
}

// Dispatch validates the request, persists one pending record per channel
// and starts delivery in the background. It returns once every record has
// been created; it does not wait for deliveries.
//
// Unknown events fail with ErrInvalidEvent before any side effect. Unknown
// users are a no-op: a zero Receipt and a nil error.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Receipt, error) {
	if req.UserID == "" {
		d.observer.DispatchHandled(req.Event, OutcomeInvalid)
		return Receipt{}, fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}

	cfg, ok := d.registry.Lookup(req.Event)
	if !ok {
		d.observer.DispatchHandled(req.Event, OutcomeInvalid)
		return Receipt{}, fmt.Errorf("%w: %q", ErrInvalidEvent, req.Event)
	}

	contact, err := d.contacts.Get(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, ErrContactNotFound) {
			d.logger.LogAttrs(ctx, slog.LevelWarn, "user not found, notification skipped",
				logger.UserID(req.UserID),
				logger.Event(req.Event),
			)
			d.observer.DispatchHandled(req.Event, OutcomeUnknownUser)
			return Receipt{}, nil
		}
		d.observer.DispatchHandled(req.Event, OutcomeLookupFailed)
		return Receipt{}, fmt.Errorf("failed to look up user contact: %w", err)
	}

	set := d.resolver.Resolve(ctx, req.Event)
	records, base := d.buildRecords(req, cfg, set)

	created, err := d.createRecords(ctx, records)
	if err != nil {
		d.observer.DispatchHandled(req.Event, OutcomeCreateFailed)
		return Receipt{}, err
	}

	receipt := Receipt{BaseKey: base, Keys: make(map[Channel]string, len(records))}
	for i, rec := range records {
		receipt.Keys[rec.Channel] = rec.IdempotencyKey
		if !created[i] {
			receipt.Skipped = append(receipt.Skipped, rec.Channel)
			continue
		}
		d.launch(ctx, rec, contact)
	}

	outcome := OutcomeAccepted
	if len(receipt.Skipped) == len(records) {
		outcome = OutcomeDuplicate
	}
	d.observer.DispatchHandled(req.Event, outcome)

	return receipt, nil
}

// Wait blocks until every delivery started so far has finished.
func (d *Dispatcher) Wait() {
	d.deliveries.Wait()
}

// Shutdown waits for in-flight deliveries until ctx is done.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	return d.deliveries.WaitContext(ctx)
}

func (d *Dispatcher) buildRecords(req Request, cfg EventConfig, set templates.Set) ([]Record, string) {
	now := d.now()
	base := req.IdempotencyKey
	if base == "" {
		base = fmt.Sprintf("%s_%s_%d", req.UserID, req.Event, now.UnixMilli())
	}

	channels := Channels()
	records := make([]Record, 0, len(channels))
	for _, ch := range channels {
		title, message := set.For(string(ch)).Render(req.Payload)
		records = append(records, Record{
			ID:             uuid.NewString(),
			UserID:         req.UserID,
			Event:          req.Event,
			Type:           cfg.Type,
			Channel:        ch,
			Title:          title,
			Message:        message,
			Priority:       cfg.Priority,
			Status:         StatusPending,
			IsRead:         false,
			IdempotencyKey: ChannelKey(base, ch),
			Metadata:       req.Payload.Clone(),
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return records, base
}

// createRecords issues every create concurrently and waits for all of them.
// created[i] is false when records[i] already existed.
func (d *Dispatcher) createRecords(ctx context.Context, records []Record) ([]bool, error) {
	futures := make([]*async.Future[bool], len(records))
	for i, rec := range records {
		futures[i] = async.Async(ctx, rec, func(ctx context.Context, rec Record) (bool, error) {
			err := d.store.Create(ctx, rec)
			switch {
			case errors.Is(err, ErrRecordExists):
				d.logger.LogAttrs(ctx, slog.LevelInfo, "notification already dispatched, skipping channel",
					logger.Channel(string(rec.Channel)),
					logger.IdempotencyKey(rec.IdempotencyKey),
				)
				return false, nil
			case err != nil:
				return false, fmt.Errorf("%s: %w", rec.Channel, err)
			}
			d.observer.RecordCreated(rec.Channel)
			return true, nil
		})
	}

	created, err := async.WaitAll(futures...)
	if err == nil {
		return created, nil
	}

	// Nothing is delivered; records that made it into the store are closed out.
	uctx := context.WithoutCancel(ctx)
	for i, ok := range created {
		if !ok {
			continue
		}
		if uerr := d.store.UpdateStatus(uctx, records[i].IdempotencyKey, StatusFailed, abortReason); uerr != nil {
			d.logger.LogAttrs(uctx, slog.LevelError, "failed to mark aborted record",
				logger.IdempotencyKey(records[i].IdempotencyKey),
				logger.Error(uerr),
			)
		}
	}

	d.logger.LogAttrs(ctx, slog.LevelError, "record creation failed, dispatch aborted",
		logger.UserID(records[0].UserID),
		logger.Event(records[0].Event),
		logger.Error(err),
	)
	return nil, errors.Join(ErrCreateRecords, err)
}

// launch starts delivery of rec detached from the caller's cancellation.
func (d *Dispatcher) launch(ctx context.Context, rec Record, contact Contact) {
	dctx := context.WithoutCancel(ctx)
	d.deliveries.Go(dctx, func(ctx context.Context) error {
		d.deliver(ctx, rec, contact)
		return nil
	}, func(err error) {
		d.logger.LogAttrs(dctx, slog.LevelError, "delivery task crashed",
			logger.Channel(string(rec.Channel)),
			logger.IdempotencyKey(rec.IdempotencyKey),
			logger.Error(err),
		)
	})
}
