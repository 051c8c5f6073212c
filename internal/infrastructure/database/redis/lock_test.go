package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
)

func TestRunLockTryLock(t *testing.T) {
	client, _ := newMiniClient(t)
	factory := NewLockFactory(client, logging.NewNopLogger())
	ctx := context.Background()

	first := factory.NewRunLock("fp-1")
	ok, err := first.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	second := factory.NewRunLock("fp-1")
	ok, err = second.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "same fingerprint must not lock twice")

	other := factory.NewRunLock("fp-2")
	ok, err = other.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "different fingerprints are independent")
}

func TestRunLockUnlockReleasesForOthers(t *testing.T) {
	client, _ := newMiniClient(t)
	factory := NewLockFactory(client, logging.NewNopLogger())
	ctx := context.Background()

	first := factory.NewRunLock("fp-1")
	require.NoError(t, first.Lock(ctx))
	require.NoError(t, first.Unlock(ctx))

	second := factory.NewRunLock("fp-1")
	ok, err := second.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunLockUnlockOnlyByOwner(t *testing.T) {
	client, _ := newMiniClient(t)
	factory := NewLockFactory(client, logging.NewNopLogger())
	ctx := context.Background()

	owner := factory.NewRunLock("fp-1")
	require.NoError(t, owner.Lock(ctx))

	stranger := factory.NewRunLock("fp-1")
	err := stranger.Unlock(ctx)
	assert.Equal(t, ErrLockNotHeld, err)

	// The owner can still release.
	assert.NoError(t, owner.Unlock(ctx))
}

func TestRunLockExtend(t *testing.T) {
	client, _ := newMiniClient(t)
	factory := NewLockFactory(client, logging.NewNopLogger())
	ctx := context.Background()

	owner := factory.NewRunLock("fp-1", WithLockTTL(time.Second))
	require.NoError(t, owner.Lock(ctx))

	ok, err := owner.Extend(ctx, 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	stranger := factory.NewRunLock("fp-1")
	ok, err = stranger.Extend(ctx, 10*time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "only the holder can extend")
}

func TestRunLockLockTimesOut(t *testing.T) {
	client, _ := newMiniClient(t)
	factory := NewLockFactory(client, logging.NewNopLogger())
	ctx := context.Background()

	holder := factory.NewRunLock("fp-1")
	require.NoError(t, holder.Lock(ctx))

	waiter := factory.NewRunLock("fp-1",
		WithRetryCount(2), WithRetryDelay(time.Millisecond))
	err := waiter.Lock(ctx)
	assert.Equal(t, ErrLockNotAcquired, err)
}
