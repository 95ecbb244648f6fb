package dispatch

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notifykit/handler"
	"github.com/dmitrymomot/notifykit/pkg/binder"
	"github.com/dmitrymomot/notifykit/pkg/broadcast"
	"github.com/dmitrymomot/notifykit/pkg/notifications"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type Dispatcher interface {
	Dispatch(ctx context.Context, req notifications.Request) (notifications.Receipt, error)
}

type RecordReader interface {
	Get(ctx context.Context, key string) (*notifications.Record, error)
	List(ctx context.Context, userID string, opts notifications.ListOptions) ([]notifications.Record, error)
}

// Feed supplies live in-app records for a user.
type Feed interface {
	Subscribe(ctx context.Context, userID string) *broadcast.Subscription[notifications.Record]
}

// Module serves the dispatch API.
type Module struct {
	dispatcher Dispatcher
	records    RecordReader
	feed       Feed
	logger     *slog.Logger
	heartbeat  time.Duration
	errHandler handler.ErrorHandler
}

type Option func(*Module)

func WithLogger(l *slog.Logger) Option {
	return func(m *Module) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithFeed enables the stream endpoint. Without a feed it answers 503.
func WithFeed(f Feed) Option {
	return func(m *Module) { m.feed = f }
}

// WithHeartbeat sets the SSE keep-alive interval.
func WithHeartbeat(d time.Duration) Option {
	return func(m *Module) { m.heartbeat = d }
}

func New(d Dispatcher, records RecordReader, opts ...Option) *Module {
	m := &Module{
		dispatcher: d,
		records:    records,
		logger:     slog.Default(),
		heartbeat:  15 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.errHandler = handler.NewErrorHandler(m.logger, errorMappers...)
	return m
}

var errorMappers = []handler.ErrorMapper{
	handler.MapError(notifications.ErrInvalidEvent, handler.ErrUnprocessableEntity),
	handler.MapError(notifications.ErrInvalidRequest, handler.ErrBadRequest),
	handler.MapError(notifications.ErrRecordNotFound, handler.ErrNotFound),
}

// Handle returns the router with every route mounted.
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/dispatch", handler.Wrap(m.dispatch,
		handler.WithBinders[dispatchRequest](binder.JSON()),
		handler.WithErrorHandler[dispatchRequest](m.errHandler),
	))
	r.Get("/records/{key}", handler.Wrap(m.getRecord,
		handler.WithBinders[recordRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[recordRequest](m.errHandler),
	))
	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/records", handler.Wrap(m.listRecords,
			handler.WithBinders[listRequest](binder.Path(chi.URLParam), binder.Query()),
			handler.WithErrorHandler[listRequest](m.errHandler),
		))
		r.Get("/stream", handler.Wrap(m.stream,
			handler.WithBinders[streamRequest](binder.Path(chi.URLParam)),
			handler.WithErrorHandler[streamRequest](m.errHandler),
		))
	})

	return r
}

// fail renders err through the module's error handler.
func (m *Module) fail(err error) handler.Response {
	return errorResponse{err: err, h: m.errHandler}
}

type errorResponse struct {
	err error
	h   handler.ErrorHandler
}

func (e errorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	e.h(handler.NewContext(w, r), e.err)
	return nil
}
