package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accelari/trademarkiq2-sub002/internal/config"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
)

func newMiniClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient(config.RedisConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestNewClientConnects(t *testing.T) {
	client, _ := newMiniClient(t)
	assert.NoError(t, client.Ping(context.Background()))
}

func TestNewClientConnectionFailed(t *testing.T) {
	client, err := NewClient(config.RedisConfig{Addr: "localhost:1"}, logging.NewNopLogger())
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestClientOperations(t *testing.T) {
	client, _ := newMiniClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "foo", "bar", 0).Err())
	val, err := client.Get(ctx, "foo").Result()
	require.NoError(t, err)
	assert.Equal(t, "bar", val)

	n, err := client.Exists(ctx, "foo").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	deleted, err := client.Del(ctx, "foo").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	ok, err := client.SetNX(ctx, "nx", "1", 0).Result()
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = client.SetNX(ctx, "nx", "2", 0).Result()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClientClosedGuard(t *testing.T) {
	client, _ := newMiniClient(t)
	require.NoError(t, client.Close())

	assert.Equal(t, ErrClientClosed, client.Get(context.Background(), "foo").Err())
	assert.Equal(t, ErrClientClosed, client.Ping(context.Background()))
	assert.NoError(t, client.Close(), "double close is a no-op")
}
