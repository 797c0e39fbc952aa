// Package cache holds fetched snapshots for a fixed freshness window
// Concurrent loads of one key share a single in-flight call, failed loads get one more try,
// and errors are never stored
package cache

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	perr "opendash/internal/platform/errors"
	"opendash/internal/platform/logger"
)

// Defaults used when an option is not given
const (
	DefaultTTL        = 5 * time.Minute
	DefaultRetries    = 1
	DefaultRetryDelay = time.Second
)

type entry struct {
	val     any
	expires time.Time
}

// Cache is safe for concurrent use
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group

	ttl        time.Duration
	retries    int
	retryDelay time.Duration
	retryable  func(error) bool
	now        func() time.Time
	sleep      func(context.Context, time.Duration) error
	log        logger.Logger
}

// Option configures a Cache
type Option func(*Cache)

// WithTTL sets the freshness window
func WithTTL(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithRetries sets how many extra attempts a failed load gets
func WithRetries(n int) Option {
	return func(c *Cache) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithRetryDelay sets the pause before a retry
func WithRetryDelay(d time.Duration) Option {
	return func(c *Cache) {
		if d >= 0 {
			c.retryDelay = d
		}
	}
}

// WithRetryable decides which errors deserve a retry
func WithRetryable(fn func(error) bool) Option {
	return func(c *Cache) {
		if fn != nil {
			c.retryable = fn
		}
	}
}

// WithClock swaps the time source, tests use it to expire entries
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithSleep swaps the retry pause
func WithSleep(fn func(context.Context, time.Duration) error) Option {
	return func(c *Cache) {
		if fn != nil {
			c.sleep = fn
		}
	}
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option { return func(c *Cache) { c.log = l } }

// New constructs a Cache
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:    make(map[string]entry),
		ttl:        DefaultTTL,
		retries:    DefaultRetries,
		retryDelay: DefaultRetryDelay,
		retryable:  anyButCanceled,
		now:        time.Now,
		sleep:      sleepCtx,
		log:        *logger.Named("cache"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func anyButCanceled(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// TTL returns the freshness window
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get returns the fresh value for key or loads it with fn
// fn runs detached from any single caller's cancellation so one aborted request
// does not fail the others waiting on the same key
func Get[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := c.lookup(key); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}

	ch := c.group.DoChan(key, func() (any, error) {
		// a caller that lost the race may find the value already stored
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		v, err := c.load(context.WithoutCancel(ctx), key, func(ctx context.Context) (any, error) {
			return fn(ctx)
		})
		if err != nil {
			return nil, err
		}
		c.store(key, v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		t, ok := res.Val.(T)
		if !ok {
			return zero, perr.Newf(perr.ErrorCodeUnknown, "cache: key %q holds %T", key, res.Val)
		}
		return t, nil
	}
}

func (c *Cache) load(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.log.Warn().Err(lastErr).Str("key", key).Int("attempt", attempt+1).Msg("retrying fetch")
			if err := c.sleep(ctx, c.retryDelay); err != nil {
				return nil, errors.Join(lastErr, err)
			}
		}
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if !c.retryable(err) {
			break
		}
	}
	return nil, fmt.Errorf("cache %s: %w", key, lastErr)
}

func (c *Cache) lookup(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expires) {
		return nil, false
	}
	return e.val, true
}

func (c *Cache) store(key string, v any) {
	c.mu.Lock()
	c.entries[key] = entry{val: v, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate drops the given keys
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.mu.Unlock()
}

// Purge drops everything and returns how many entries were held
func (c *Cache) Purge() int {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]entry)
	c.mu.Unlock()
	return n
}

// Len reports how many entries are held, stale ones included
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats is a point-in-time view for operators
type Stats struct {
	Entries int           `json:"entries"`
	Fresh   int           `json:"fresh"`
	TTL     time.Duration `json:"ttl_ns"`
	Keys    []string      `json:"keys"`
}

// Snapshot reports the entries currently held
func (c *Cache) Snapshot() Stats {
	now := c.now()
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := Stats{Entries: len(c.entries), TTL: c.ttl, Keys: make([]string, 0, len(c.entries))}
	for k, e := range c.entries {
		s.Keys = append(s.Keys, k)
		if now.Before(e.expires) {
			s.Fresh++
		}
	}
	slices.Sort(s.Keys)
	return s
}
