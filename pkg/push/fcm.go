package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	fcm "google.golang.org/api/fcm/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

const messagingScope = "https://www.googleapis.com/auth/firebase.messaging"

// FCMTransport sends push notifications with the FCM HTTP v1 API.
type FCMTransport struct {
	svc     *fcm.Service
	parent  string
	timeout time.Duration
	logger  *slog.Logger
}

type Option func(*fcmOptions)

type fcmOptions struct {
	client *http.Client
	logger *slog.Logger
}

// WithHTTPClient bypasses credential loading and sends through c.
func WithHTTPClient(c *http.Client) Option {
	return func(o *fcmOptions) { o.client = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *fcmOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewFCMTransport builds the FCM service. ctx is kept by the credential token
// source, so pass a context that lives as long as the transport.
func NewFCMTransport(ctx context.Context, cfg Config, opts ...Option) (*FCMTransport, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("%w: project id is required", ErrInvalidConfig)
	}
	o := &fcmOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	var clientOpts []option.ClientOption
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint))
	}
	if o.client != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(o.client))
	} else {
		creds, err := loadCredentials(ctx, cfg)
		if err != nil {
			return nil, err
		}
		clientOpts = append(clientOpts, option.WithTokenSource(creds.TokenSource))
	}

	svc, err := fcm.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FCMTransport{
		svc:     svc,
		parent:  "projects/" + cfg.ProjectID,
		timeout: timeout,
		logger:  o.logger,
	}, nil
}

func loadCredentials(ctx context.Context, cfg Config) (*google.Credentials, error) {
	data := []byte(cfg.CredentialsJSON)
	if len(data) == 0 && cfg.CredentialsFile != "" {
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("%w: read credentials: %w", ErrInvalidConfig, err)
		}
		data = b
	}
	if len(data) == 0 {
		creds, err := google.FindDefaultCredentials(ctx, messagingScope)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		return creds, nil
	}
	creds, err := google.CredentialsFromJSON(ctx, data, messagingScope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return creds, nil
}

// Send delivers one notification to a device token.
func (t *FCMTransport) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req := &fcm.SendMessageRequest{
		Message: &fcm.Message{
			Token:        token,
			Notification: &fcm.Notification{Title: title, Body: body},
			Data:         data,
		},
	}
	msg, err := t.svc.Projects.Messages.Send(t.parent, req).Context(ctx).Do()
	if err != nil {
		return classify(err)
	}

	t.logger.LogAttrs(ctx, slog.LevelDebug, "push sent",
		logger.Component("push"),
		slog.String("message_name", msg.Name),
	)
	return nil
}

func classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code == http.StatusNotFound || strings.Contains(gerr.Body, "UNREGISTERED") {
			return fmt.Errorf("%w: %w", ErrInvalidToken, err)
		}
	}
	return fmt.Errorf("%w: %w", ErrSendFailed, err)
}
