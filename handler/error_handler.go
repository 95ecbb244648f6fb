package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/requestid"
	"github.com/dmitrymomot/notifykit/pkg/validator"
)

// ErrorMapper translates a domain error into an HTTPError. It reports false
// for errors it does not know.
type ErrorMapper func(err error) (HTTPError, bool)

// MapError builds an ErrorMapper for one sentinel.
func MapError(target error, to HTTPError) ErrorMapper {
	return func(err error) (HTTPError, bool) {
		if errors.Is(err, target) {
			if to.Message == "" {
				to.Message = target.Error()
			}
			return to, true
		}
		return HTTPError{}, false
	}
}

// Classify runs the mappers in order and falls back to ErrValidation for
// validator errors, then to an HTTPError in the chain, then to 500.
func Classify(err error, mappers ...ErrorMapper) HTTPError {
	for _, m := range mappers {
		if he, ok := m(err); ok {
			return he
		}
	}
	if len(validator.Extract(err)) > 0 {
		return ErrValidation
	}
	var he HTTPError
	if errors.As(err, &he) {
		return he
	}
	return ErrInternalServerError
}

// NewErrorHandler logs the error and writes the JSON error envelope.
// 4xx answers are logged at warn level, everything else at error.
func NewErrorHandler(log *slog.Logger, mappers ...ErrorMapper) ErrorHandler {
	if log == nil {
		log = slog.Default()
	}
	return func(ctx Context, err error) {
		he := Classify(err, mappers...)

		level := slog.LevelError
		if he.Code >= http.StatusBadRequest && he.Code < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		r := ctx.Request()
		log.LogAttrs(r.Context(), level, "request error",
			logger.Component("http"),
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
			slog.Int("status_code", he.Code),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		// Field details live on the validator error, not on the HTTPError.
		var out error = he
		if he == ErrValidation {
			out = err
		}
		if renderErr := JSONError(out).Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.LogAttrs(r.Context(), slog.LevelError, "failed to render error response",
				logger.Component("http"),
				logger.Error(renderErr),
			)
		}
	}
}
