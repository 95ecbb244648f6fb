package notifications

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannels(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []Channel{"email", "sms", "in_app", "push"}, Channels())
	for _, ch := range Channels() {
		assert.True(t, ch.Valid())
	}
	assert.False(t, Channel("fax").Valid())
	assert.Equal(t, "base_push", ChannelKey("base", ChannelPush))
}

func TestPriorityText(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(EventConfig{Type: "order", Priority: PriorityUrgent})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"order","priority":"urgent"}`, string(out))

	var cfg EventConfig
	require.NoError(t, json.Unmarshal([]byte(`{"type":"x","priority":"High"}`), &cfg))
	assert.Equal(t, PriorityHigh, cfg.Priority)

	err = json.Unmarshal([]byte(`{"priority":"critical"}`), &cfg)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	assert.Equal(t, "normal", PriorityNormal.String())
	assert.Equal(t, "priority(9)", Priority(9).String())
	_, err = Priority(9).MarshalText()
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	t.Parallel()
	r := NewRegistry(map[string]EventConfig{"b": {Type: "t"}})

	require.NoError(t, r.Register("a", EventConfig{Type: "x", Priority: PriorityLow}))
	assert.ErrorIs(t, r.Register("", EventConfig{}), ErrInvalidRequest)

	cfg, ok := r.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "x", cfg.Type)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, r.Events())
}
