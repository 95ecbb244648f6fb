package templates

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// Resolver picks the template set for an event.
type Resolver struct {
	source Source
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a resolver over source. A nil source always yields
// the default set.
func NewResolver(source Source, opts ...Option) *Resolver {
	r := &Resolver{
		source: source,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve never fails: lookup errors and unknown events fall back to DefaultSet.
func (r *Resolver) Resolve(ctx context.Context, event string) Set {
	if r.source == nil {
		return DefaultSet()
	}

	set, ok, err := r.source.Lookup(ctx, event)
	if err != nil {
		r.logger.LogAttrs(ctx, slog.LevelError, "template lookup failed, using default templates",
			logger.Event(event),
			logger.Error(err),
		)
		return DefaultSet()
	}
	if !ok || set.Validate() != nil {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "no template found for event, using default templates",
			logger.Event(event),
		)
		return DefaultSet()
	}
	return set
}
