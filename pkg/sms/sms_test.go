package sms_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/sms"
)

const gatewayURL = "https://sms.example.com/v1/messages"

func newGateway(t *testing.T, cfg sms.Config) (*sms.GatewayTransport, *httpmock.MockTransport) {
	t.Helper()
	mock := httpmock.NewMockTransport()
	if cfg.GatewayURL == "" {
		cfg.GatewayURL = gatewayURL
	}
	g, err := sms.NewGatewayTransport(cfg, sms.WithHTTPClient(&http.Client{Transport: mock}))
	require.NoError(t, err)
	return g, mock
}

func TestNewGatewayTransport_InvalidURL(t *testing.T) {
	t.Parallel()

	for _, u := range []string{"", "not a url", "ftp://sms.example.com", "/relative"} {
		_, err := sms.NewGatewayTransport(sms.Config{GatewayURL: u})
		assert.ErrorIs(t, err, sms.ErrInvalidConfig, u)
	}
}

func TestGatewayTransport_Send(t *testing.T) {
	t.Parallel()

	t.Run("delivered", func(t *testing.T) {
		t.Parallel()
		g, mock := newGateway(t, sms.Config{APIKey: "key-1", Sender: "shop"})

		var got map[string]string
		var auth string
		mock.RegisterResponder(http.MethodPost, gatewayURL, func(req *http.Request) (*http.Response, error) {
			auth = req.Header.Get("Authorization")
			body, _ := io.ReadAll(req.Body)
			_ = json.Unmarshal(body, &got)
			return httpmock.NewStringResponse(http.StatusAccepted, `{"id":"m1"}`), nil
		})

		ok, err := g.Send(context.Background(), "+15550100", "Your order shipped")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Bearer key-1", auth)
		assert.Equal(t, map[string]string{"to": "+15550100", "from": "shop", "body": "Your order shipped"}, got)
		assert.Equal(t, 1, mock.GetTotalCallCount())
	})

	t.Run("declined", func(t *testing.T) {
		t.Parallel()
		g, mock := newGateway(t, sms.Config{})
		mock.RegisterResponder(http.MethodPost, gatewayURL,
			httpmock.NewStringResponder(http.StatusUnprocessableEntity, `{"error":"unreachable"}`))

		ok, err := g.Send(context.Background(), "+15550100", "hi")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()
		g, mock := newGateway(t, sms.Config{})
		mock.RegisterResponder(http.MethodPost, gatewayURL,
			httpmock.NewStringResponder(http.StatusBadGateway, "upstream down"))

		ok, err := g.Send(context.Background(), "+15550100", "hi")
		require.ErrorIs(t, err, sms.ErrGatewayFailure)
		assert.Contains(t, err.Error(), "502")
		assert.Contains(t, err.Error(), "upstream down")
		assert.False(t, ok)
	})

	t.Run("rate limited is an error", func(t *testing.T) {
		t.Parallel()
		g, mock := newGateway(t, sms.Config{})
		mock.RegisterResponder(http.MethodPost, gatewayURL,
			httpmock.NewStringResponder(http.StatusTooManyRequests, ""))

		ok, err := g.Send(context.Background(), "+15550100", "hi")
		require.ErrorIs(t, err, sms.ErrGatewayFailure)
		assert.False(t, ok)
	})

	t.Run("network error", func(t *testing.T) {
		t.Parallel()
		g, mock := newGateway(t, sms.Config{})
		mock.RegisterResponder(http.MethodPost, gatewayURL,
			httpmock.NewErrorResponder(errors.New("connection refused")))

		ok, err := g.Send(context.Background(), "+15550100", "hi")
		require.ErrorIs(t, err, sms.ErrGatewayFailure)
		assert.False(t, ok)
	})

	t.Run("invalid phone", func(t *testing.T) {
		t.Parallel()
		g, mock := newGateway(t, sms.Config{})

		for _, p := range []string{"", "abc", "12", "+1555-0100x"} {
			ok, err := g.Send(context.Background(), p, "hi")
			assert.ErrorIs(t, err, sms.ErrInvalidPhone, p)
			assert.False(t, ok)
		}
		assert.Zero(t, mock.GetTotalCallCount())
	})
}

func TestGatewayTransport_Signature(t *testing.T) {
	t.Parallel()

	g, mock := newGateway(t, sms.Config{SigningSecret: "s3cret"})

	var verr error
	mock.RegisterResponder(http.MethodPost, gatewayURL, func(req *http.Request) (*http.Response, error) {
		body, _ := io.ReadAll(req.Body)
		verr = sms.Verify("s3cret", body,
			req.Header.Get(sms.HeaderSignature), req.Header.Get(sms.HeaderTimestamp), time.Minute)
		return httpmock.NewStringResponse(http.StatusOK, ""), nil
	})

	ok, err := g.Send(context.Background(), "+15550100", "signed")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, verr)
}

func TestVerify(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"to":"+1"}`)
	now := time.Now()
	sig := sms.Sign("k", payload, now)
	ts := now.Unix()

	assert.NoError(t, sms.Verify("k", payload, sig, itoa(ts), time.Minute))
	assert.ErrorIs(t, sms.Verify("other", payload, sig, itoa(ts), time.Minute), sms.ErrInvalidSignature)
	assert.ErrorIs(t, sms.Verify("k", []byte("tampered"), sig, itoa(ts), time.Minute), sms.ErrInvalidSignature)
	assert.ErrorIs(t, sms.Verify("k", payload, sig, "nope", time.Minute), sms.ErrInvalidSignature)

	old := now.Add(-time.Hour)
	assert.ErrorIs(t, sms.Verify("k", payload, sms.Sign("k", payload, old), itoa(old.Unix()), time.Minute), sms.ErrInvalidSignature)
}

func TestGatewayTransport_CircuitBreaker(t *testing.T) {
	t.Parallel()

	g, mock := newGateway(t, sms.Config{BreakerThreshold: 2, BreakerCooldown: time.Hour})
	mock.RegisterResponder(http.MethodPost, gatewayURL,
		httpmock.NewStringResponder(http.StatusServiceUnavailable, ""))

	for range 2 {
		_, err := g.Send(context.Background(), "+15550100", "hi")
		require.ErrorIs(t, err, sms.ErrGatewayFailure)
	}

	ok, err := g.Send(context.Background(), "+15550100", "hi")
	require.ErrorIs(t, err, sms.ErrCircuitOpen)
	assert.False(t, ok)
	assert.Equal(t, 2, mock.GetTotalCallCount())
}

func TestGatewayTransport_DeclinesDoNotTripBreaker(t *testing.T) {
	t.Parallel()

	g, mock := newGateway(t, sms.Config{BreakerThreshold: 1, BreakerCooldown: time.Hour})
	mock.RegisterResponder(http.MethodPost, gatewayURL,
		httpmock.NewStringResponder(http.StatusBadRequest, ""))

	for range 3 {
		ok, err := g.Send(context.Background(), "+15550100", "hi")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 3, mock.GetTotalCallCount())
}

func TestLogTransport(t *testing.T) {
	t.Parallel()

	ok, err := sms.NewLogTransport(nil).Send(context.Background(), "+15550100", "hi")
	require.NoError(t, err)
	assert.True(t, ok)
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
