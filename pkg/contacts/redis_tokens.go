package contacts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/notifykit/pkg/notifications"
)

const DefaultTokenKeyPrefix = "user_tokens:"

// tokenClient is the subset of redis.Cmdable used by RedisTokens.
type tokenClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisTokens stores one push token per user under "<prefix><userID>".
type RedisTokens struct {
	client tokenClient
	prefix string
}

// TokensOption configures RedisTokens.
type TokensOption func(*RedisTokens)

func WithKeyPrefix(prefix string) TokensOption {
	return func(t *RedisTokens) { t.prefix = prefix }
}

func NewRedisTokens(client tokenClient, opts ...TokensOption) *RedisTokens {
	t := &RedisTokens{client: client, prefix: DefaultTokenKeyPrefix}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *RedisTokens) Get(ctx context.Context, userID string) (string, error) {
	tok, err := t.client.Get(ctx, t.prefix+userID).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", notifications.ErrTokenNotFound
	case err != nil:
		return "", fmt.Errorf("failed to read push token: %w", err)
	case tok == "":
		return "", notifications.ErrTokenNotFound
	}
	return tok, nil
}

// Set stores token for userID. A zero ttl keeps it until overwritten.
func (t *RedisTokens) Set(ctx context.Context, userID, token string, ttl time.Duration) error {
	if userID == "" {
		return ErrInvalidUserID
	}
	if err := t.client.Set(ctx, t.prefix+userID, token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store push token: %w", err)
	}
	return nil
}
