package cache

import (
	"context"

	"github.com/chirp/chirp/internal/model"
)

// Noop satisfies the record cache contract without storing anything.
// It is used when no Redis URL is configured.
type Noop struct{}

// GetUser always misses.
func (Noop) GetUser(ctx context.Context, id string) (*model.User, error) { return nil, ErrCacheMiss }

// SetUser discards the user.
func (Noop) SetUser(ctx context.Context, user *model.User) error { return nil }

// DeleteUser does nothing.
func (Noop) DeleteUser(ctx context.Context, id string) error { return nil }

// GetPost always misses.
func (Noop) GetPost(ctx context.Context, id string) (*model.Post, error) { return nil, ErrCacheMiss }

// SetPost discards the post.
func (Noop) SetPost(ctx context.Context, post *model.Post) error { return nil }

// DeletePost does nothing.
func (Noop) DeletePost(ctx context.Context, id string) error { return nil }
