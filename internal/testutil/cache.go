package testutil

import (
	"context"
	"sync"

	"github.com/chirp/chirp/internal/cache"
	"github.com/chirp/chirp/internal/model"
)

// MapCache is an in-memory record cache for unit tests.
// Setting Err makes every call fail with it, like an unreachable Redis.
type MapCache struct {
	mu    sync.Mutex
	users map[string]model.User
	posts map[string]model.Post
	Err   error
}

// NewMapCache returns an empty MapCache.
func NewMapCache() *MapCache {
	return &MapCache{
		users: make(map[string]model.User),
		posts: make(map[string]model.Post),
	}
}

// GetUser implements the record cache.
func (c *MapCache) GetUser(ctx context.Context, id string) (*model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	u, ok := c.users[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return &u, nil
}

// SetUser implements the record cache.
func (c *MapCache) SetUser(ctx context.Context, user *model.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.users[user.ID] = *user
	return nil
}

// DeleteUser implements the record cache.
func (c *MapCache) DeleteUser(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	delete(c.users, id)
	return nil
}

// GetPost implements the record cache.
func (c *MapCache) GetPost(ctx context.Context, id string) (*model.Post, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	p, ok := c.posts[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return &p, nil
}

// SetPost implements the record cache.
func (c *MapCache) SetPost(ctx context.Context, post *model.Post) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.posts[post.ID] = *post
	return nil
}

// DeletePost implements the record cache.
func (c *MapCache) DeletePost(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	delete(c.posts, id)
	return nil
}

// HasUser reports whether id is cached.
func (c *MapCache) HasUser(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.users[id]
	return ok
}

// HasPost reports whether id is cached.
func (c *MapCache) HasPost(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.posts[id]
	return ok
}
