package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestTokenSessionStore(t *testing.T) {
	mr, rdb := newRedis(t)
	store := NewTokenSessionStore(rdb, time.Hour)
	ctx := context.Background()

	b, err := store.GetSession(ctx, "alice1")
	require.NoError(t, err)
	assert.Nil(t, b)

	ok, err := store.UpdateSession(ctx, "alice1", []byte(`{"access_token":"a"}`))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.UpdateSession(ctx, "alice1", []byte(`{"access_token":"b"}`))
	require.NoError(t, err)
	assert.True(t, ok)

	b, err = store.GetSession(ctx, "alice1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"access_token":"b"}`, string(b))
	assert.True(t, mr.Exists("oauth:token:alice1"))
	assert.Equal(t, time.Hour, mr.TTL("oauth:token:alice1"))

	require.NoError(t, store.DeleteSession(ctx, "alice1"))
	b, err = store.GetSession(ctx, "alice1")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestTokenSessionStore_StorageError(t *testing.T) {
	mr, rdb := newRedis(t)
	store := NewTokenSessionStore(rdb, 0)
	mr.Close()

	_, err := store.GetSession(context.Background(), "alice1")
	assert.Error(t, err)
}

func TestSessionStore(t *testing.T) {
	mr, rdb := newRedis(t)
	store := NewSessionStore(rdb, time.Minute)
	ctx := context.Background()

	u := entity.SessionUser{Username: "alice1", Email: "alice@example.com", Scope: "profile", IsAdminUser: true}
	sid, err := store.Create(ctx, u)
	require.NoError(t, err)
	require.NotEmpty(t, sid)

	got, err := store.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, u, *got)

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(ctx, sid)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	sid, err = store.Create(ctx, u)
	require.NoError(t, err)
	require.NoError(t, store.Destroy(ctx, sid))
	_, err = store.Get(ctx, sid)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
