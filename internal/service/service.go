// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"hash/fnv"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/chirp/chirp/internal/model"
)

// Service errors.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrInvalidUsername = errors.New("username is required")
	ErrEmptyContent    = errors.New("post content is required")
	ErrContentTooLong  = errors.New("post content exceeds 280 characters")
	ErrUnknownUser     = errors.New("post references a nonexistent user")
	ErrUserHasPosts    = errors.New("user still owns posts")
)

// UserStore persists users. *repository.Repository satisfies it.
type UserStore interface {
	ListUsers(ctx context.Context) ([]*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	CreateUser(ctx context.Context, username string, avatar *string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// PostStore persists posts. *repository.Repository satisfies it.
type PostStore interface {
	ListPosts(ctx context.Context, userID string) ([]*model.Post, error)
	GetPostByID(ctx context.Context, id string) (*model.Post, error)
	CreatePost(ctx context.Context, content, userID string) (*model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post) (*model.Post, error)
	DeletePost(ctx context.Context, id string) error
}

// RecordCache caches single users and posts by id.
// Get methods return cache.ErrCacheMiss when the record is absent.
type RecordCache interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	SetUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id string) error
	GetPost(ctx context.Context, id string) (*model.Post, error)
	SetPost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, id string) error
}

// validateContent enforces the post length limit server side.
func validateContent(content string) error {
	if model.IsBlank(content) {
		return ErrEmptyContent
	}
	if model.ContentLength(content) > model.MaxPostLength {
		return ErrContentTooLong
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const writeGuardSlots = 256

// writeGuard detects writes that raced with a cache backfill of the same id.
// Ids hash onto a fixed set of counters, so a collision only costs a
// redundant eviction. It covers writers in this process; writers on other
// instances are bounded by the cache TTL.
type writeGuard struct {
	slots [writeGuardSlots]atomic.Uint64
}

func (g *writeGuard) slot(id string) *atomic.Uint64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &g.slots[h.Sum32()%writeGuardSlots]
}

// token is taken before reading the store.
func (g *writeGuard) token(id string) uint64 {
	return g.slot(id).Load()
}

// bump is called after a store write and before the eviction.
func (g *writeGuard) bump(id string) {
	g.slot(id).Add(1)
}

// raced reports whether a write to id finished since token was taken.
func (g *writeGuard) raced(id string, token uint64) bool {
	return g.slot(id).Load() != token
}
