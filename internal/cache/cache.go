package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache stores JSON-encodable query results. Keys carry the snapshot tag
// they were computed from, so entries never need invalidating.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}

const keyPrefix = "booking:"

// Key joins parts into a namespaced cache key.
func Key(parts ...any) string {
	k := keyPrefix
	for i, p := range parts {
		if i > 0 {
			k += ":"
		}
		k += fmt.Sprint(p)
	}
	return k
}

// --------------------------------------------------
// Redis
// --------------------------------------------------

type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (c *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *Redis) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// --------------------------------------------------
// Memory
// --------------------------------------------------

type entry struct {
	data    []byte
	expires time.Time
}

const (
	memorySweepEvery = time.Minute
	memoryMaxEntries = 10000
)

// Memory is an in-process Cache used when no Redis address is configured.
// Expired entries are swept on Set at most once per memorySweepEvery, and
// the map never grows past max entries.
type Memory struct {
	mu        sync.Mutex
	entries   map[string]entry
	now       func() time.Time
	lastSweep time.Time
	max       int
}

func NewMemory() *Memory {
	return &Memory{entries: map[string]entry{}, now: time.Now, max: memoryMaxEntries}
}

func (c *Memory) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(e.data, dst)
}

func (c *Memory) Set(_ context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	e := entry{data: data}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) >= memorySweepEvery || len(c.entries) >= c.max {
		c.sweep(now)
	}
	if _, exists := c.entries[key]; !exists {
		for k := range c.entries {
			if len(c.entries) < c.max {
				break
			}
			delete(c.entries, k)
		}
	}

	c.entries[key] = e
	return nil
}

// sweep drops expired entries. Callers hold mu.
func (c *Memory) sweep(now time.Time) {
	for k, e := range c.entries {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
	c.lastSweep = now
}

// Nop never hits.
type Nop struct{}

func (Nop) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (Nop) Set(context.Context, string, any, time.Duration) error { return nil }

var (
	_ Cache = (*Redis)(nil)
	_ Cache = (*Memory)(nil)
	_ Cache = Nop{}
)
