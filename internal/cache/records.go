package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/chirp/chirp/internal/model"
)

// Cache key prefixes.
const (
	userKeyPrefix = "user:"
	postKeyPrefix = "post:"
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// UserKey returns the Redis key for a cached user.
func UserKey(id string) string {
	return userKeyPrefix + id
}

// PostKey returns the Redis key for a cached post.
func PostKey(id string) string {
	return postKeyPrefix + id
}

// GetUser retrieves a cached user. Returns ErrCacheMiss if absent.
func (c *Cache) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := c.getJSON(ctx, UserKey(id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetUser caches a user.
func (c *Cache) SetUser(ctx context.Context, user *model.User) error {
	return c.setJSON(ctx, UserKey(user.ID), user)
}

// DeleteUser evicts a cached user.
func (c *Cache) DeleteUser(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, UserKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete user from cache: %w", err)
	}
	return nil
}

// GetPost retrieves a cached post. Returns ErrCacheMiss if absent.
func (c *Cache) GetPost(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	if err := c.getJSON(ctx, PostKey(id), &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// SetPost caches a post.
func (c *Cache) SetPost(ctx context.Context, post *model.Post) error {
	return c.setJSON(ctx, PostKey(post.ID), post)
}

// DeletePost evicts a cached post.
func (c *Cache) DeletePost(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, PostKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete post from cache: %w", err)
	}
	return nil
}

func (c *Cache) getJSON(ctx context.Context, key string, dst any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		// Corrupted entry - drop it and treat as miss
		c.client.Del(ctx, key)
		return ErrCacheMiss
	}

	return nil
}

func (c *Cache) setJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache %s: %w", key, err)
	}

	return nil
}
