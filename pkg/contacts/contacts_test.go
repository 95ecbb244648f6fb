package contacts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/notifykit/pkg/notifications"
)

type fakeUsers struct {
	docs     map[string]bson.D
	err      error
	replaced []any
}

func (f *fakeUsers) FindOne(_ context.Context, filter any, _ ...options.Lister[options.FindOneOptions]) *mongo.SingleResult {
	if f.err != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, f.err, bson.NewRegistry())
	}
	id := filter.(bson.D)[0].Value.(string)
	doc, ok := f.docs[id]
	if !ok {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, bson.NewRegistry())
	}
	return mongo.NewSingleResultFromDocument(doc, nil, bson.NewRegistry())
}

func (f *fakeUsers) ReplaceOne(_ context.Context, _ any, replacement any, _ ...options.Lister[options.ReplaceOptions]) (*mongo.UpdateResult, error) {
	f.replaced = append(f.replaced, replacement)
	return &mongo.UpdateResult{UpsertedCount: 1}, nil
}

func TestMongoDirectory_Get(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	users := &fakeUsers{docs: map[string]bson.D{
		"u1": {{Key: "_id", Value: "u1"}, {Key: "email", Value: "ann@example.com"}, {Key: "fcm_token", Value: "tok"}},
	}}
	dir := NewMongoDirectoryWithCollection(users)

	c, err := dir.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, notifications.Contact{Email: "ann@example.com", FCMToken: "tok"}, c)

	_, err = dir.Get(ctx, "ghost")
	assert.ErrorIs(t, err, notifications.ErrContactNotFound)

	_, err = dir.Get(ctx, "")
	assert.ErrorIs(t, err, notifications.ErrContactNotFound)

	boom := errors.New("server selection timeout")
	_, err = NewMongoDirectoryWithCollection(&fakeUsers{err: boom}).Get(ctx, "u1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, notifications.ErrContactNotFound)
}

func TestMongoDirectory_Put(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{}
	dir := NewMongoDirectoryWithCollection(users)

	require.NoError(t, dir.Put(context.Background(), "u1", notifications.Contact{PhoneNumber: "+1555"}))
	require.Len(t, users.replaced, 1)
	assert.Equal(t, userDocument{ID: "u1", PhoneNumber: "+1555"}, users.replaced[0])
	assert.ErrorIs(t, dir.Put(context.Background(), "", notifications.Contact{}), ErrInvalidUserID)
}

type fakeRedis struct {
	values map[string]string
	err    error
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func TestRedisTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	client := &fakeRedis{values: map[string]string{"user_tokens:u1": "tok-1", "user_tokens:blank": ""}}
	tokens := NewRedisTokens(client)

	tok, err := tokens.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	_, err = tokens.Get(ctx, "u2")
	assert.ErrorIs(t, err, notifications.ErrTokenNotFound)
	_, err = tokens.Get(ctx, "blank")
	assert.ErrorIs(t, err, notifications.ErrTokenNotFound)

	require.NoError(t, tokens.Set(ctx, "u2", "tok-2", 0))
	assert.Equal(t, "tok-2", client.values["user_tokens:u2"])
	assert.ErrorIs(t, tokens.Set(ctx, "", "x", 0), ErrInvalidUserID)

	prefixed := NewRedisTokens(client, WithKeyPrefix("push:"))
	require.NoError(t, prefixed.Set(ctx, "u3", "tok-3", time.Hour))
	assert.Equal(t, "tok-3", client.values["push:u3"])

	_, err = NewRedisTokens(&fakeRedis{err: errors.New("conn refused")}).Get(ctx, "u1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, notifications.ErrTokenNotFound)
}

func TestMemoryLookups(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := NewMemoryDirectory(map[string]notifications.Contact{"u1": {Email: "a@b.c"}})
	c, err := dir.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", c.Email)
	_, err = dir.Get(ctx, "u2")
	assert.ErrorIs(t, err, notifications.ErrContactNotFound)
	require.NoError(t, dir.Put(ctx, "u2", notifications.Contact{PhoneNumber: "1"}))
	assert.ErrorIs(t, dir.Put(ctx, "", notifications.Contact{}), ErrInvalidUserID)

	tokens := NewMemoryTokens()
	_, err = tokens.Get(ctx, "u1")
	assert.ErrorIs(t, err, notifications.ErrTokenNotFound)
	require.NoError(t, tokens.Set(ctx, "u1", "t"))
	tok, err := tokens.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "t", tok)
}
