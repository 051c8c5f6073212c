package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
	"github.com/accelari/trademarkiq2-sub002/pkg/errors"
)

var (
	ErrLockNotAcquired = errors.New(errors.ErrCodeConflict, "failed to acquire lock")
	ErrLockNotHeld     = errors.New(errors.ErrCodeConflict, "lock not held by this owner")
)

// RunLock serializes detection runs for the same candidate fingerprint.
// Two identical runs arriving together would double every provider call for
// no benefit; the loser waits or backs off.
type RunLock interface {
	Lock(ctx context.Context) error
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
	Extend(ctx context.Context, ttl time.Duration) (bool, error)
}

// LockFactory mints RunLocks bound to one Redis client.
type LockFactory interface {
	NewRunLock(fingerprint string, opts ...LockOption) RunLock
}

type LockOption func(*lockConfig)

func WithLockTTL(ttl time.Duration) LockOption {
	return func(c *lockConfig) { c.ttl = ttl }
}

func WithRetryDelay(delay time.Duration) LockOption {
	return func(c *lockConfig) { c.retryDelay = delay }
}

func WithRetryCount(count int) LockOption {
	return func(c *lockConfig) { c.retryCount = count }
}

type lockConfig struct {
	ttl        time.Duration
	retryDelay time.Duration
	retryCount int
}

type lockFactory struct {
	client *Client
	logger logging.Logger
}

func NewLockFactory(client *Client, log logging.Logger) LockFactory {
	return &lockFactory{client: client, logger: log}
}

func (f *lockFactory) NewRunLock(fingerprint string, opts ...LockOption) RunLock {
	cfg := lockConfig{
		ttl:        60 * time.Second,
		retryDelay: 100 * time.Millisecond,
		retryCount: 30,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &runLock{
		client: f.client,
		key:    "tmiq:lock:run:" + fingerprint,
		value:  uuid.New().String(),
		config: cfg,
		logger: f.logger,
	}
}

type runLock struct {
	client *Client
	key    string
	value  string
	config lockConfig
	logger logging.Logger
}

// Compare-and-delete so an expired lock taken over by another run is never
// released by the old owner.
var unlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

var extendScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

func (l *runLock) Lock(ctx context.Context) error {
	for i := 0; i < l.config.retryCount; i++ {
		ok, err := l.client.SetNX(ctx, l.key, l.value, l.config.ttl).Result()
		if err != nil && err != redis.Nil {
			return errors.Wrap(err, errors.ErrCodeCacheError, "failed to set lock")
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.config.retryDelay):
		}
	}
	return ErrLockNotAcquired
}

func (l *runLock) TryLock(ctx context.Context) (bool, error) {
	return l.client.SetNX(ctx, l.key, l.value, l.config.ttl).Result()
}

func (l *runLock) Unlock(ctx context.Context) error {
	res, err := unlockScript.Run(ctx, l.client.Underlying(), []string{l.key}, l.value).Result()
	if err != nil {
		return err
	}
	if n, ok := res.(int64); ok && n == 0 {
		return ErrLockNotHeld
	}
	return nil
}

func (l *runLock) Extend(ctx context.Context, ttl time.Duration) (bool, error) {
	res, err := extendScript.Run(ctx, l.client.Underlying(), []string{l.key}, l.value, ttl.Milliseconds()).Result()
	if err != nil {
		return false, err
	}
	n, ok := res.(int64)
	return ok && n == 1, nil
}
