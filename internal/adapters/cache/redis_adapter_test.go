package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisclient "github.com/zatekoja/doction/backend/internal/infrastructure/clients/redis"
)

func newTestAdapter(t *testing.T) (*RedisAdapter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisAdapter(redisclient.Wrap(client), nil).(*RedisAdapter), mr
}

func TestRedisAdapter_SetGet(t *testing.T) {
	adapter, mr := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "chat_signals:abc", []byte(`{"intent":"pricing"}`), 60))

	got, err := adapter.Get(ctx, "chat_signals:abc")
	require.NoError(t, err)
	assert.Equal(t, `{"intent":"pricing"}`, string(got))
	assert.Equal(t, 60*time.Second, mr.TTL("chat_signals:abc"))

	exists, err := adapter.Exists(ctx, "chat_signals:abc")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRedisAdapter_MissAndExpiry(t *testing.T) {
	adapter, mr := newTestAdapter(t)
	ctx := context.Background()

	_, err := adapter.Get(ctx, "chat_signals:none")
	assert.True(t, errors.Is(err, ErrCacheMiss))

	require.NoError(t, adapter.Set(ctx, "geo:1", []byte("x"), 5))
	mr.FastForward(6 * time.Second)

	_, err = adapter.Get(ctx, "geo:1")
	assert.True(t, errors.Is(err, ErrCacheMiss))
}

func TestRedisAdapter_Delete(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, adapter.Delete(ctx, "k"))

	exists, err := adapter.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestKeyPrefix(t *testing.T) {
	assert.Equal(t, "chat_signals", keyPrefix("chat_signals:deadbeef"))
	assert.Equal(t, "plain", keyPrefix("plain"))
}
