package swr

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key identifies a cached read. Cluster is part of every key so a changed
// network is a cache miss by design: no cross-network leakage of cached
// state. Extra carries an optional discriminator such as an account address.
type Key struct {
	Scope   string
	Cluster string
	Extra   string
}

func (k Key) String() string {
	return strings.Join([]string{k.Scope, k.Cluster, k.Extra}, "\x1f")
}

// Status classifies a cached read outcome. The split between Empty and
// TransportError is deliberate: callers may render both the same, but tests
// and diagnostics can tell "legitimately empty" from "network down".
type Status int

const (
	// StatusOk means the fetch succeeded and Data holds a snapshot.
	StatusOk Status = iota
	// StatusEmpty means the remote resource does not exist (yet).
	StatusEmpty
	// StatusTransportError means the fetch failed; Err holds the cause.
	StatusTransportError
)

// Result is the value stored under a cache key.
type Result struct {
	Status    Status
	Data      any
	Err       error
	UpdatedAt time.Time
}

// Ok builds a successful result.
func Ok(data any) Result {
	return Result{Status: StatusOk, Data: data}
}

// Empty builds an absent-resource result.
func Empty() Result {
	return Result{Status: StatusEmpty}
}

// Fail builds a transport-failure result.
func Fail(err error) Result {
	return Result{Status: StatusTransportError, Err: err}
}

// Data extracts a typed snapshot from a result.
func Data[T any](r Result) (T, bool) {
	v, ok := r.Data.(T)
	return v, ok
}

// Option configures a Cache.
type Option func(*Cache)

// WithFreshFor sets the freshness window after which a cached entry is served
// stale while a background refresh runs.
func WithFreshFor(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.freshFor = d
		}
	}
}

// WithClock overrides the clock (useful in tests).
func WithClock(fn func() time.Time) Option {
	return func(c *Cache) {
		if fn != nil {
			c.now = fn
		}
	}
}

// Cache is a request/response cache with stale-while-revalidate semantics and
// explicit invalidation. Entry eviction policy beyond invalidation is owned
// by the surrounding application, not by this cache.
type Cache struct {
	mu       sync.Mutex
	entries  map[Key]Result
	group    singleflight.Group
	freshFor time.Duration
	now      func() time.Time
}

// New creates an empty cache. The default freshness window is 30 seconds.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:  make(map[Key]Result),
		freshFor: 30 * time.Second,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the cached result for key when fresh. A stale entry is
// returned immediately while fn refreshes it in the background; a missing
// entry blocks on fn. Concurrent fetches for the same key coalesce onto a
// single fn invocation. A fetch aborted by its caller's cancellation returns
// the failure to that caller only; see store.
func (c *Cache) Fetch(ctx context.Context, key Key, fn func(ctx context.Context) Result) Result {
	c.mu.Lock()
	cached, ok := c.entries[key]
	fresh := ok && c.now().Sub(cached.UpdatedAt) < c.freshFor
	c.mu.Unlock()

	if fresh {
		return cached
	}
	if ok {
		go c.refresh(context.WithoutCancel(ctx), key, fn)
		return cached
	}
	return c.refresh(ctx, key, fn)
}

// Refresh forces fn and stores its outcome regardless of freshness.
func (c *Cache) Refresh(ctx context.Context, key Key, fn func(ctx context.Context) Result) Result {
	return c.refresh(ctx, key, fn)
}

func (c *Cache) refresh(ctx context.Context, key Key, fn func(ctx context.Context) Result) Result {
	v, _, _ := c.group.Do(key.String(), func() (any, error) {
		result := fn(ctx)
		result.UpdatedAt = c.now()
		c.store(key, result)
		return result, nil
	})
	return v.(Result)
}

// store writes a refresh outcome, with two exceptions. A fetch that failed
// because its caller was torn down is discarded: the caller is gone, and
// caching the cancellation would serve it to live callers for the whole
// freshness window. And a transport failure never replaces an existing Ok
// snapshot; the stale data stays serveable until a refresh succeeds.
func (c *Cache) store(key Key, result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if result.Status == StatusTransportError {
		if errors.Is(result.Err, context.Canceled) || errors.Is(result.Err, context.DeadlineExceeded) {
			return
		}
		if cached, ok := c.entries[key]; ok && cached.Status == StatusOk {
			return
		}
	}
	c.entries[key] = result
}

// Peek returns the cached result without fetching.
func (c *Cache) Peek(key Key) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[key]
	return r, ok
}

// Invalidate drops the given keys. The next Fetch for a dropped key blocks on
// its fetcher instead of serving a stale snapshot.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
}

// InvalidateScope drops every entry under (scope, cluster) regardless of
// discriminator.
func (c *Cache) InvalidateScope(scope, cluster string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.Scope == scope && key.Cluster == cluster {
			delete(c.entries, key)
		}
	}
}
