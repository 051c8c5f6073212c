package redis

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// memoryCache is a process-local Cache used when Redis is not configured and
// as a test double.  TTLs are honored lazily on read.
type memoryCache struct {
	mu    sync.RWMutex
	items map[string]memoryItem
}

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache builds an in-process Cache with the same semantics as the
// Redis-backed one.
func NewMemoryCache() Cache {
	return &memoryCache{items: make(map[string]memoryItem)}
}

func (c *memoryCache) get(key string) ([]byte, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil, false
	}
	return item.data, true
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	data, ok := c.get(key)
	if !ok {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return ErrSerializationFailed
	}
	return nil
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return ErrSerializationFailed
	}
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = memoryItem{data: data, expiresAt: expires}
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.items, k)
	}
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := c.get(key)
	return ok, nil
}

func (c *memoryCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}
	v, err := loader(ctx)
	if err != nil {
		return err
	}
	if v == nil {
		return ErrCacheMiss
	}
	if err := c.Set(ctx, key, v, ttl); err != nil {
		return err
	}
	return c.Get(ctx, key, dest)
}

func (c *memoryCache) DeleteByPrefix(_ context.Context, prefix string) (int64, error) {
	var deleted int64
	c.mu.Lock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
			deleted++
		}
	}
	c.mu.Unlock()
	return deleted, nil
}

func (c *memoryCache) Ping(_ context.Context) error { return nil }
