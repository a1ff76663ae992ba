package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache holds raw documents for a limited time.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
}

type memoryCache struct {
	mu  sync.Mutex
	m   map[string]cacheEntry
	now func() time.Time
}

type cacheEntry struct {
	b   []byte
	exp time.Time
}

// NewMemoryCache returns a process-local cache.
func NewMemoryCache() Cache {
	return &memoryCache{m: make(map[string]cacheEntry), now: time.Now}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[key]
	if !ok || (!e.exp.IsZero() && c.now().After(e.exp)) {
		return nil, false
	}
	return e.b, true
}

func (c *memoryCache) Set(_ context.Context, key string, val []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := cacheEntry{b: append([]byte(nil), val...)}
	if ttl > 0 {
		e.exp = c.now().Add(ttl)
	}
	c.m[key] = e
}

type redisCache struct{ r *redis.Client }

// NewRedisCache returns a cache backed by the Redis server at addr.
func NewRedisCache(addr string) Cache {
	return &redisCache{r: redis.NewClient(&redis.Options{Addr: addr})}
}

// NewAutoCache picks Redis when addr is set and memory otherwise.
func NewAutoCache(addr string) Cache {
	if addr != "" {
		return NewRedisCache(addr)
	}
	return NewMemoryCache()
}

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	v, err := r.r.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("redis get failed")
		}
		return nil, false
	}
	return v, true
}

func (r *redisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	if err := r.r.Set(ctx, key, val, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis set failed")
	}
}

// Cached is a read-through cache in front of another store.
// Missing documents are not cached.
type Cached struct {
	docReader
	inner Store
	src   rawGetter
	cache Cache
	ttl   time.Duration
}

// NewCached wraps inner with cache. Stores from other packages are returned unchanged.
func NewCached(inner Store, cache Cache, ttl time.Duration) Store {
	src, ok := inner.(rawGetter)
	if !ok {
		return inner
	}
	c := &Cached{inner: inner, src: src, cache: cache, ttl: ttl}
	c.docReader = docReader{raw: c}
	return c
}

func (c *Cached) Name() string { return c.inner.Name() + "+cache" }

func cacheKey(collection, id string) string { return "doc:" + collection + ":" + id }

// Put writes through to the inner store and replaces the cached copy.
func (c *Cached) Put(ctx context.Context, collection, id string, body []byte) error {
	w, ok := c.inner.(Writer)
	if !ok {
		return fmt.Errorf("%s store is read-only", c.inner.Name())
	}
	if err := w.Put(ctx, collection, id, body); err != nil {
		return err
	}
	c.cache.Set(ctx, cacheKey(collection, id), body, c.ttl)
	return nil
}

func (c *Cached) get(ctx context.Context, collection, id string) ([]byte, error) {
	key := cacheKey(collection, id)
	if b, ok := c.cache.Get(ctx, key); ok {
		return b, nil
	}
	b, err := c.src.get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	c.cache.Set(ctx, key, b, c.ttl)
	return b, nil
}

func (c *Cached) ids(ctx context.Context, collection string) ([]string, error) {
	return c.src.ids(ctx, collection)
}
