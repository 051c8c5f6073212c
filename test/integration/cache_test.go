package integration

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accelari/trademarkiq2-sub002/internal/application/detection"
	"github.com/accelari/trademarkiq2-sub002/internal/config"
	rediscache "github.com/accelari/trademarkiq2-sub002/internal/infrastructure/database/redis"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

func TestVariantStrategyCachedInRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := rediscache.NewClient(config.RedisConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cache := rediscache.NewCache(client, logging.NewNopLogger(),
		rediscache.WithPrefix("tmiq"), rediscache.WithDefaultTTL(time.Hour))

	provider := detection.NewVariantProvider(logging.NewNopLogger(),
		detection.WithVariantCache(cache, time.Hour))

	ctx := context.Background()
	first, err := provider.Variants(ctx, "Altana", []int{5}, []string{"DE"}, trademark.ModeFast, 8)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	keys := mr.Keys()
	require.NotEmpty(t, keys, "strategy must be written through to redis")

	second, err := provider.Variants(ctx, "Altana", []int{5}, []string{"DE"}, trademark.ModeFast, 8)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, keys, mr.Keys(), "a cache hit must not write new keys")

	// A different candidate fingerprints to its own entry.
	_, err = provider.Variants(ctx, "Brontal", []int{5}, []string{"DE"}, trademark.ModeFast, 8)
	require.NoError(t, err)
	assert.Greater(t, len(mr.Keys()), len(keys))
}

func TestDetectSurvivesRedisOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := rediscache.NewClient(config.RedisConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cache := rediscache.NewCache(client, logging.NewNopLogger(), rediscache.WithPrefix("tmiq"))

	registry := newFakeProvider(t, []wireMark{
		{MID: 3, Verbal: "ALTANA", Status: "LIVE", Class: []int{5}, Submition: "DE", Accuracy: 100},
	})
	engine := newTestEngine(t, registry.URL, engineOptions{cache: cache})

	// Cache reads and writes fail once the server is gone; the run itself
	// must not.
	mr.Close()

	resp, err := engine.Detect(context.Background(), detection.Request{
		Name:      "Altana",
		Countries: []string{"DE"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Conflicts, 1)
}
