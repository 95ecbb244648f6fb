package dispatch

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/notifykit/handler"
	"github.com/dmitrymomot/notifykit/pkg/notifications"
	"github.com/dmitrymomot/notifykit/pkg/templates"
	"github.com/dmitrymomot/notifykit/pkg/validator"
)

// IdempotencyHeader is read when the body carries no idempotency_key.
const IdempotencyHeader = "Idempotency-Key"

const (
	maxUserIDLen = 255
	maxEventLen  = 128
	maxKeyLen    = 255
)

type dispatchRequest struct {
	UserID         string            `json:"user_id"`
	Event          string            `json:"event"`
	Payload        templates.Payload `json:"payload"`
	IdempotencyKey string            `json:"idempotency_key"`
}

func (r dispatchRequest) validate() error {
	return validator.Apply(
		validator.Required("user_id", r.UserID),
		validator.MaxLen("user_id", strings.TrimSpace(r.UserID), maxUserIDLen),
		validator.Required("event", r.Event),
		validator.MaxLen("event", strings.TrimSpace(r.Event), maxEventLen),
		validator.MaxLen("idempotency_key", strings.TrimSpace(r.IdempotencyKey), maxKeyLen),
	)
}

func (m *Module) dispatch(ctx handler.Context, req dispatchRequest) handler.Response {
	if err := req.validate(); err != nil {
		return m.fail(err)
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" {
		key = strings.TrimSpace(ctx.Request().Header.Get(IdempotencyHeader))
	}

	receipt, err := m.dispatcher.Dispatch(ctx, notifications.Request{
		UserID:         strings.TrimSpace(req.UserID),
		Event:          strings.TrimSpace(req.Event),
		Payload:        req.Payload,
		IdempotencyKey: key,
	})
	if err != nil {
		return m.fail(err)
	}
	return handler.JSON(receipt, handler.WithJSONStatus(http.StatusAccepted))
}

type recordRequest struct {
	Key string `path:"key"`
}

func (m *Module) getRecord(ctx handler.Context, req recordRequest) handler.Response {
	rec, err := m.records.Get(ctx, req.Key)
	if err != nil {
		return m.fail(err)
	}
	return handler.JSON(rec)
}

type listRequest struct {
	UserID  string                `path:"userID"`
	Channel notifications.Channel `query:"channel"`
	Status  notifications.Status  `query:"status"`
	Event   string                `query:"event"`
	Since   *time.Time            `query:"since"`
	Limit   int                   `query:"limit"`
	Offset  int                   `query:"offset"`
}

func (r listRequest) options() (notifications.ListOptions, error) {
	if err := validator.Apply(
		validator.When(r.Channel != "", validator.OneOf("channel", r.Channel, notifications.Channels())),
		validator.When(r.Status != "", validator.OneOf("status", r.Status, notifications.Statuses())),
		validator.Min("limit", r.Limit, 0),
		validator.Min("offset", r.Offset, 0),
	); err != nil {
		return notifications.ListOptions{}, err
	}

	limit := r.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	return notifications.ListOptions{
		Limit:   min(limit, maxListLimit),
		Offset:  r.Offset,
		Channel: r.Channel,
		Status:  r.Status,
		Event:   r.Event,
		Since:   r.Since,
	}, nil
}

func (m *Module) listRecords(ctx handler.Context, req listRequest) handler.Response {
	opts, err := req.options()
	if err != nil {
		return m.fail(err)
	}

	records, err := m.records.List(ctx, req.UserID, opts)
	if err != nil {
		return m.fail(err)
	}
	if records == nil {
		records = []notifications.Record{}
	}
	return handler.JSON(records, handler.WithJSONMeta(map[string]any{
		"limit":  opts.Limit,
		"offset": opts.Offset,
		"count":  len(records),
	}))
}

type streamRequest struct {
	UserID string `path:"userID"`
}

// stream forwards in-app records as "notification" events keyed by their
// idempotency key.
func (m *Module) stream(ctx handler.Context, req streamRequest) handler.Response {
	if m.feed == nil {
		return m.fail(handler.ErrServiceUnavailable.WithMessage("live feed is not configured"))
	}

	sub := m.feed.Subscribe(ctx, req.UserID)
	return handler.Stream(func(streamCtx context.Context, send handler.EventSender) {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-streamCtx.Done():
				return
			case rec, ok := <-sub.C():
				if !ok {
					return
				}
				if err := send.Send("notification", rec.IdempotencyKey, rec); err != nil {
					return
				}
			}
		}
	}, handler.WithHeartbeat(m.heartbeat))
}
