package binder_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/binder"
)

type level int

func (l *level) UnmarshalText(b []byte) error {
	switch string(b) {
	case "low":
		*l = 1
	case "high":
		*l = 2
	default:
		return fmt.Errorf("unknown level %q", b)
	}
	return nil
}

type request struct {
	UserID  string    `path:"userID"`
	Channel string    `query:"channel"`
	Limit   int       `query:"limit"`
	Tags    []string  `query:"tag"`
	Since   time.Time `query:"since"`
	Level   *level    `query:"level"`
	Skip    string    `query:"-"`
	Event   string    `json:"event"`
}

func TestJSON(t *testing.T) {
	t.Parallel()

	newReq := func(ct, body string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/dispatch", strings.NewReader(body))
		if ct != "" {
			r.Header.Set("Content-Type", ct)
		}
		return r
	}

	t.Run("decodes body", func(t *testing.T) {
		t.Parallel()
		var v request
		require.NoError(t, binder.JSON()(newReq("application/json; charset=utf-8", `{"event":"welcome"}`), &v))
		assert.Equal(t, "welcome", v.Event)
	})

	tests := []struct {
		name string
		ct   string
		body string
		err  error
	}{
		{"missing content type", "", `{}`, binder.ErrMissingContentType},
		{"wrong content type", "text/plain", `{}`, binder.ErrUnsupportedMediaType},
		{"empty body", "application/json", ``, binder.ErrFailedToParseJSON},
		{"malformed", "application/json", `{"event":`, binder.ErrFailedToParseJSON},
		{"unknown field", "application/json", `{"colour":"red"}`, binder.ErrFailedToParseJSON},
		{"trailing data", "application/json", `{"event":"a"}{"event":"b"}`, binder.ErrFailedToParseJSON},
		{"too large", "application/json", `{"event":"` + strings.Repeat("x", binder.MaxJSONSize) + `"}`, binder.ErrFailedToParseJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var v request
			assert.ErrorIs(t, binder.JSON()(newReq(tt.ct, tt.body), &v), tt.err)
		})
	}
}

func TestQuery(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet,
		"/users/u1/records?channel=sms&limit=5&tag=a,b&tag=c&since=2026-01-02T03:04:05Z&level=high&skip=x", nil)

	var v request
	require.NoError(t, binder.Query()(r, &v))
	assert.Equal(t, "sms", v.Channel)
	assert.Equal(t, 5, v.Limit)
	assert.Equal(t, []string{"a", "b", "c"}, v.Tags)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), v.Since)
	require.NotNil(t, v.Level)
	assert.Equal(t, level(2), *v.Level)
	assert.Empty(t, v.Skip)
	assert.Empty(t, v.UserID)
}

func TestQuery_Errors(t *testing.T) {
	t.Parallel()

	for _, q := range []string{"limit=ten", "since=yesterday", "level=meh"} {
		var v request
		r := httptest.NewRequest(http.MethodGet, "/?"+q, nil)
		assert.ErrorIs(t, binder.Query()(r, &v), binder.ErrFailedToParseQuery, q)
	}

	var notStruct int
	assert.ErrorIs(t, binder.Query()(httptest.NewRequest(http.MethodGet, "/", nil), &notStruct), binder.ErrFailedToParseQuery)
}

func TestPath(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/users/u-42/records", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("userID", "u-42")
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	var v request
	require.NoError(t, binder.Path(chi.URLParam)(r, &v))
	assert.Equal(t, "u-42", v.UserID)
	assert.Empty(t, v.Channel)
}
