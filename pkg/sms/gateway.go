package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

type message struct {
	To   string `json:"to"`
	From string `json:"from,omitempty"`
	Body string `json:"body"`
}

// GatewayTransport sends SMS through an HTTP gateway.
type GatewayTransport struct {
	url     string
	apiKey  string
	secret  string
	sender  string
	timeout time.Duration
	client  *http.Client
	breaker *breaker
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*GatewayTransport)

func WithHTTPClient(c *http.Client) Option {
	return func(g *GatewayTransport) {
		if c != nil {
			g.client = c
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(g *GatewayTransport) {
		if l != nil {
			g.logger = l
		}
	}
}

func NewGatewayTransport(cfg Config, opts ...Option) (*GatewayTransport, error) {
	u, err := url.Parse(cfg.GatewayURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: gateway URL must be an absolute http(s) URL", ErrInvalidConfig)
	}

	g := &GatewayTransport{
		url:     cfg.GatewayURL,
		apiKey:  cfg.APIKey,
		secret:  cfg.SigningSecret,
		sender:  cfg.Sender,
		timeout: cfg.Timeout,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		breaker: newBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown),
		logger:  slog.Default(),
		now:     time.Now,
	}
	if g.timeout <= 0 {
		g.timeout = 10 * time.Second
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Send makes a single delivery attempt.
func (g *GatewayTransport) Send(ctx context.Context, phone, body string) (bool, error) {
	phone = strings.TrimSpace(phone)
	if !validPhone(phone) {
		return false, fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	if !g.breaker.allow() {
		return false, ErrCircuitOpen
	}

	payload, err := json.Marshal(message{To: phone, From: g.sender, Body: body})
	if err != nil {
		return false, fmt.Errorf("failed to encode sms payload: %w", err)
	}

	status, err := g.post(ctx, payload)
	switch {
	case err != nil:
		g.breaker.record(true)
		return false, err
	case isDeclined(status):
		g.breaker.record(false)
		g.logger.LogAttrs(ctx, slog.LevelWarn, "sms declined by gateway",
			logger.Component("sms"),
			slog.Int("status_code", status),
		)
		return false, nil
	}
	g.breaker.record(false)
	return true, nil
}

func (g *GatewayTransport) post(ctx context.Context, payload []byte) (int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "notifykit-sms/1.0")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}
	if g.secret != "" {
		ts := g.now()
		req.Header.Set(HeaderSignature, Sign(g.secret, payload, ts))
		req.Header.Set(HeaderTimestamp, strconv.FormatInt(ts.Unix(), 10))
	}

	resp, err := g.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return 0, fmt.Errorf("%w: timeout after %s", ErrGatewayFailure, g.timeout)
		}
		return 0, fmt.Errorf("%w: %w", ErrGatewayFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 || isDeclined(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return resp.StatusCode, nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := strings.ReplaceAll(string(snippet), "\n", " ")
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	if msg != "" {
		return resp.StatusCode, fmt.Errorf("%w: status %d: %s", ErrGatewayFailure, resp.StatusCode, msg)
	}
	return resp.StatusCode, fmt.Errorf("%w: status %d", ErrGatewayFailure, resp.StatusCode)
}

// isDeclined reports permanent client errors. 408 and 429 are transient.
func isDeclined(status int) bool {
	return status >= 400 && status < 500 && status != http.StatusRequestTimeout && status != http.StatusTooManyRequests
}

func validPhone(p string) bool {
	digits := 0
	for i, r := range p {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 5 && digits <= 15
}
