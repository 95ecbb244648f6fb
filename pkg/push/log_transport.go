package push

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// LogTransport writes messages to the log instead of sending them.
type LogTransport struct {
	logger *slog.Logger
}

func NewLogTransport(l *slog.Logger) *LogTransport {
	if l == nil {
		l = slog.Default()
	}
	return &LogTransport{logger: l}
}

func (t *LogTransport) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if token == "" {
		return ErrEmptyToken
	}
	t.logger.LogAttrs(ctx, slog.LevelInfo, "push (not sent)",
		logger.Component("push"),
		slog.String("title", title),
		slog.String("body", body),
		slog.Any("data", data),
	)
	return nil
}
