// Package cache provides the time-bounded result cache shared by the odds service.
//
// Entries are fresh for a category TTL and are retained for a longer window after
// that so an expired result can still be served when recomputation is impossible.
// Concurrent misses for the same key are collapsed into one computation.
package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/yourusername/playoff-odds/internal/logger"
	"github.com/yourusername/playoff-odds/internal/metrics"
)

// Category names a class of cached data with its own TTL.
type Category string

const (
	CategoryOdds      Category = "odds"
	CategoryGameData  Category = "game_data"
	CategoryStandings Category = "standings"
)

// ErrNilCompute is returned when GetOrCompute is called without a compute function.
var ErrNilCompute = errors.New("cache: nil compute function")

// Key identifies a cached result by data date and request parameters.
type Key struct {
	Date   time.Time
	Params string
}

// String returns the storage form of the key.
func (k Key) String() string {
	if k.Params == "" {
		return k.Date.Format(time.DateOnly)
	}
	return k.Date.Format(time.DateOnly) + "|" + k.Params
}

// Entry is a cached value with its freshness window. Entries are replaced, never
// modified.
type Entry[T any] struct {
	Data      T
	Timestamp time.Time
	TTL       time.Duration
}

// IsFresh reports whether the entry is still within its TTL at now.
func (e *Entry[T]) IsFresh(now time.Time) bool {
	return now.Sub(e.Timestamp) < e.TTL
}

// Age returns how long ago the entry was computed.
func (e *Entry[T]) Age(now time.Time) time.Duration {
	return now.Sub(e.Timestamp)
}

// Loaded is the outcome of a LoadFunc. A transient value is returned to every caller
// waiting on the load but is not stored.
type Loaded[T any] struct {
	Value     T
	Transient bool
}

// Keep wraps a value to be stored.
func Keep[T any](v T) Loaded[T] {
	return Loaded[T]{Value: v}
}

// Transient wraps a value that is handed to callers without being stored.
func Transient[T any](v T) Loaded[T] {
	return Loaded[T]{Value: v, Transient: true}
}

// LoadFunc produces the value for a key.
type LoadFunc[T any] func(ctx context.Context) (Loaded[T], error)

// Stats is a point-in-time view of cache activity.
type Stats struct {
	Hits       uint64
	Misses     uint64
	Recomputes uint64
	Items      int
}

// HitRatio returns hits over lookups, or 0 before the first lookup.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

type options struct {
	now func() time.Time
	log *logrus.Logger
}

// Option configures a Cache.
type Option func(*options)

// WithClock replaces time.Now for freshness decisions.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the base logger.
func WithLogger(log *logrus.Logger) Option {
	return func(o *options) { o.log = log }
}

// Cache holds values of one category. It is safe for concurrent use.
type Cache[T any] struct {
	category  Category
	ttl       time.Duration
	retention time.Duration
	store     *gocache.Cache
	group     singleflight.Group
	now       func() time.Time
	log       *logger.CacheLogger

	mu      sync.Mutex
	flights map[string]*flight

	hits       atomic.Uint64
	misses     atomic.Uint64
	recomputes atomic.Uint64
}

// New creates a cache whose entries are fresh for ttl and kept for retention.
// A retention shorter than ttl is raised to ttl.
func New[T any](category Category, ttl, retention time.Duration, opts ...Option) *Cache[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if retention < ttl {
		retention = ttl
	}

	return &Cache[T]{
		category:  category,
		ttl:       ttl,
		retention: retention,
		store:     gocache.New(retention, retention/2),
		now:       o.now,
		log:       logger.NewCacheLogger(o.log, string(category)),
		flights:   make(map[string]*flight),
	}
}

// Category returns the cache's category.
func (c *Cache[T]) Category() Category { return c.category }

// TTL returns the freshness window.
func (c *Cache[T]) TTL() time.Duration { return c.ttl }

func (c *Cache[T]) lookup(key string) (*Entry[T], bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	e, ok := v.(*Entry[T])
	return e, ok
}

func (c *Cache[T]) recordLookup(hit bool) {
	if hit {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	metrics.RecordCacheLookup(string(c.category), hit, c.hits.Load(), c.misses.Load())
}

// Get returns the value for key if a fresh entry exists.
func (c *Cache[T]) Get(key string) (T, bool) {
	e, ok := c.lookup(key)
	if ok && e.IsFresh(c.now()) {
		c.recordLookup(true)
		return e.Data, true
	}
	c.recordLookup(false)
	var zero T
	return zero, false
}

// GetStale returns the entry for key whether or not it is fresh, as long as it is
// still retained. It does not count as a lookup.
func (c *Cache[T]) GetStale(key string) (*Entry[T], bool) {
	return c.lookup(key)
}

// Set stores value under key, fresh from now.
func (c *Cache[T]) Set(key string, value T) *Entry[T] {
	e := &Entry[T]{Data: value, Timestamp: c.now(), TTL: c.ttl}
	c.store.Set(key, e, c.retention)
	return e
}

// Invalidate removes key, including any stale copy.
func (c *Cache[T]) Invalidate(key string) {
	c.store.Delete(key)
}

// Flush removes every entry.
func (c *Cache[T]) Flush() {
	c.store.Flush()
}

// Stats returns the lookup counters and the number of retained entries.
func (c *Cache[T]) Stats() Stats {
	return Stats{
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Recomputes: c.recomputes.Load(),
		Items:      c.store.ItemCount(),
	}
}

// GetOrCompute returns the fresh value for key or computes and stores it. See GetOrLoad.
func (c *Cache[T]) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (T, error)) (T, error) {
	return c.GetOrLoad(ctx, key, keepAll(compute))
}

// Recompute computes and stores key regardless of the current entry. See Reload.
func (c *Cache[T]) Recompute(ctx context.Context, key string, compute func(context.Context) (T, error)) (T, error) {
	return c.Reload(ctx, key, keepAll(compute))
}

// GetOrLoad returns the fresh value for key or runs load. Concurrent callers missing
// on the same key share a single load.
//
// The load runs on a context detached from any single caller. A caller whose ctx ends
// stops waiting and gets ctx.Err(). When the last waiting caller leaves, the load's
// context is cancelled; that caller waits for the load to return and receives its value
// if it produced one anyway (a partial result), or ctx.Err() otherwise.
func (c *Cache[T]) GetOrLoad(ctx context.Context, key string, load LoadFunc[T]) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	return c.do(ctx, key, load, false)
}

// Reload runs load for key regardless of the current entry. It joins a load already in
// flight for the same key.
func (c *Cache[T]) Reload(ctx context.Context, key string, load LoadFunc[T]) (T, error) {
	return c.do(ctx, key, load, true)
}

func keepAll[T any](compute func(context.Context) (T, error)) LoadFunc[T] {
	if compute == nil {
		return nil
	}
	return func(ctx context.Context) (Loaded[T], error) {
		v, err := compute(ctx)
		return Keep(v), err
	}
}

// flight is the shared state of one in-flight load.
type flight struct {
	ctx       context.Context
	cancel    context.CancelFunc
	waiters   int
	abandoned bool
}

// outcome is what the singleflight function returns, also on error.
type outcome[T any] struct {
	value T
	f     *flight
}

// maxAttempts bounds how often a caller restarts after joining an abandoned load.
const maxAttempts = 2

func (c *Cache[T]) do(ctx context.Context, key string, load LoadFunc[T], force bool) (T, error) {
	var zero T
	if load == nil {
		return zero, ErrNilCompute
	}

	for attempt := 1; ; attempt++ {
		f := c.join(ctx, key)
		ch := c.group.DoChan(key, func() (any, error) {
			out := outcome[T]{f: f}
			defer c.finish(key, f)

			if !force {
				if e, ok := c.lookup(key); ok && e.IsFresh(c.now()) {
					out.value = e.Data
					return out, nil
				}
			}

			start := time.Now()
			loaded, err := load(f.ctx)
			if err != nil {
				c.log.LogComputeFailed(key, err)
				return out, err
			}
			out.value = loaded.Value
			if loaded.Transient {
				return out, nil
			}
			c.Set(key, loaded.Value)
			c.recomputes.Add(1)
			metrics.RecordCacheRecompute(string(c.category))
			c.log.LogRecompute(key, time.Since(start))
			return out, nil
		})

		select {
		case <-ctx.Done():
			if !c.leave(key, f, true) {
				return zero, ctx.Err()
			}
			res := <-ch
			if res.Err != nil {
				return zero, ctx.Err()
			}
			out, _ := res.Val.(outcome[T])
			return out.value, nil

		case res := <-ch:
			c.leave(key, f, false)
			out, _ := res.Val.(outcome[T])
			if res.Err != nil {
				if attempt < maxAttempts && ctx.Err() == nil && c.wasAbandoned(out.f) {
					continue
				}
				return zero, res.Err
			}
			return out.value, nil
		}
	}
}

// join registers the caller as a waiter on key's flight, creating it if needed.
func (c *Cache[T]) join(ctx context.Context, key string) *flight {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, ok := c.flights[key]
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		c.flights[key] = f
	}
	f.waiters++
	return f
}

// leave removes a waiter and reports whether it was the last one. A last waiter leaving
// early abandons the flight and cancels its context.
func (c *Cache[T]) leave(key string, f *flight, early bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	f.waiters--
	if f.waiters > 0 {
		return false
	}
	if c.flights[key] == f {
		delete(c.flights, key)
	}
	if early {
		f.abandoned = true
	}
	f.cancel()
	return true
}

// finish detaches a completed flight so later callers start a new one.
func (c *Cache[T]) finish(key string, f *flight) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.flights[key] == f {
		delete(c.flights, key)
	}
}

func (c *Cache[T]) wasAbandoned(f *flight) bool {
	if f == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return f.abandoned
}
