// Package cache provides a read-through, time-gated cache for the sheet snapshot.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/picksheet/pkg/logger"
	"github.com/okian/picksheet/pkg/metrics"
)

// Defaults.
const (
	DefaultTTL      = 5 * time.Minute
	DefaultCooldown = 60 * time.Second
)

// Loader produces a fresh value.
type Loader[T any] func(ctx context.Context) (T, error)

// State describes the cache for diagnostics.
type State struct {
	Loaded       bool          `json:"loaded"`
	LoadedAt     time.Time     `json:"loaded_at"`
	Age          time.Duration `json:"age"`
	TTL          time.Duration `json:"ttl"`
	RefreshAfter time.Time     `json:"refresh_after"`
}

// Cache memoizes the result of a Loader for a TTL. Failed loads are never
// cached. The mutex serializes loads so concurrent readers share one fetch.
type Cache[T any] struct {
	mu         sync.Mutex
	load       Loader[T]
	cfg        config
	value      T
	loaded     bool
	loadedAt   time.Time
	lastForced time.Time
	forcedEver bool
}

// New returns a cache around load.
func New[T any](load Loader[T], opts ...Option) *Cache[T] {
	cfg := config{
		ttl:      DefaultTTL,
		cooldown: DefaultCooldown,
		clock:    SystemClock,
		logger:   logger.Get(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Cache[T]{load: load, cfg: cfg}
}

// Get returns the cached value while it is younger than the TTL and loads
// a fresh one otherwise. The returned time is when the value was loaded.
func (c *Cache[T]) Get(ctx context.Context) (T, time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.cfg.clock.Now()
	if c.loaded && now.Sub(c.loadedAt) < c.cfg.ttl {
		metrics.RecordCacheHit()
		return c.value, c.loadedAt, nil
	}
	metrics.RecordCacheMiss()
	if err := c.reload(ctx, now); err != nil {
		var zero T
		return zero, time.Time{}, err
	}
	return c.value, c.loadedAt, nil
}

// Refresh forces a reload unless one was forced within the cooldown, in
// which case it returns ErrCooldown and leaves the cached value untouched.
func (c *Cache[T]) Refresh(ctx context.Context) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.cfg.clock.Now()
	if c.forcedEver && now.Sub(c.lastForced) < c.cfg.cooldown {
		metrics.RecordRefreshRejected()
		wait := c.cfg.cooldown - now.Sub(c.lastForced)
		var zero T
		return zero, fmt.Errorf("%w: retry in %s", ErrCooldown, wait.Round(time.Second))
	}
	c.forcedEver = true
	c.lastForced = now
	if err := c.reload(ctx, now); err != nil {
		var zero T
		return zero, err
	}
	return c.value, nil
}

// Invalidate drops the cached value; the next Get reloads.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.loaded = false
}

// State reports whether a value is cached and when it was loaded.
func (c *Cache[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{Loaded: c.loaded, TTL: c.cfg.ttl}
	if c.loaded {
		st.LoadedAt = c.loadedAt
		st.Age = c.cfg.clock.Now().Sub(c.loadedAt)
	}
	if c.forcedEver {
		st.RefreshAfter = c.lastForced.Add(c.cfg.cooldown)
	}
	return st
}

// reload must be called with c.mu held.
func (c *Cache[T]) reload(ctx context.Context, now time.Time) error {
	v, err := c.load(ctx)
	if err != nil {
		c.cfg.logger.Warn(ctx, "cache load failed", logger.Error(err))
		return err
	}
	c.value = v
	c.loaded = true
	c.loadedAt = now
	metrics.UpdateCacheLoadedAt(now)
	c.cfg.logger.Debug(ctx, "cache loaded", logger.Time("loaded_at", now))
	return nil
}
