package client

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Key identifies a cached query: the operation name followed by its parameters.
type Key []string

func (k Key) id() string {
	return strings.Join(k, "\x1f")
}

// HasPrefix reports whether k starts with every element of prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

type cacheEntry struct {
	key   Key
	value any
}

// QueryCache stores successful query results by Key. Concurrent fetches of
// the same key share one request. Every key has a generation that
// Invalidate bumps; a fetch started under an older generation does not
// populate the cache, so a slow response can never overwrite a newer one.
type QueryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	gens    map[string]uint64
	keys    map[string]Key
	group   singleflight.Group
}

// NewQueryCache returns an empty cache.
func NewQueryCache() *QueryCache {
	return &QueryCache{
		entries: make(map[string]cacheEntry),
		gens:    make(map[string]uint64),
		keys:    make(map[string]Key),
	}
}

// Invalidate drops every entry whose key starts with prefix.
func (c *QueryCache) Invalidate(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, key := range c.keys {
		if key.HasPrefix(prefix) {
			c.gens[id]++
			delete(c.entries, id)
		}
	}
}

// Cached reports whether key currently holds a value.
func (c *QueryCache) Cached(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key.id()]
	return ok
}

// Len returns the number of cached entries.
func (c *QueryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *QueryCache) lookup(key Key) (any, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := key.id()
	if _, ok := c.keys[id]; !ok {
		c.keys[id] = append(Key(nil), key...)
	}
	entry, ok := c.entries[id]
	return entry.value, c.gens[id], ok
}

func (c *QueryCache) store(key Key, gen uint64, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := key.id()
	if c.gens[id] != gen {
		return
	}
	c.entries[id] = cacheEntry{key: key, value: value}
}

// query returns the cached value for key or runs fetch once for all
// concurrent callers of the same key and generation. Errors are not cached.
// The shared fetch ignores any single caller's cancellation; each caller
// stops waiting when its own ctx is done.
func query[T any](ctx context.Context, c *QueryCache, key Key, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	v, gen, ok := c.lookup(key)
	if ok {
		return v.(T), nil
	}

	flight := key.id() + "#" + strconv.FormatUint(gen, 10)
	shared := context.WithoutCancel(ctx)

	ch := c.group.DoChan(flight, func() (any, error) {
		value, err := fetch(shared)
		if err != nil {
			return nil, err
		}
		c.store(key, gen, value)
		return value, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
