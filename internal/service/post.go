package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chirp/chirp/internal/cache"
	"github.com/chirp/chirp/internal/metrics"
	"github.com/chirp/chirp/internal/model"
	"github.com/chirp/chirp/internal/repository"
)

// PostService handles post business logic.
type PostService struct {
	store   PostStore
	cache   RecordCache
	metrics metrics.Recorder
	logger  *slog.Logger
	writes  writeGuard
}

// NewPostService creates a new PostService. A nil cache, recorder or
// logger falls back to a no-op implementation.
func NewPostService(store PostStore, c RecordCache, recorder metrics.Recorder, logger *slog.Logger) *PostService {
	if c == nil {
		c = cache.Noop{}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &PostService{
		store:   store,
		cache:   c,
		metrics: recorder,
		logger:  logger,
	}
}

// CreatePostInput defines input for creating a post.
type CreatePostInput struct {
	Content string
	UserID  string
}

// ListPosts returns posts newest first, optionally only those of userID.
// The result is never nil.
func (s *PostService) ListPosts(ctx context.Context, userID string) ([]*model.Post, error) {
	posts, err := s.store.ListPosts(ctx, userID)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	return posts, nil
}

// GetPost retrieves a post by ID, cache first.
func (s *PostService) GetPost(ctx context.Context, id string) (*model.Post, error) {
	cached, err := s.cache.GetPost(ctx, id)
	if err == nil {
		s.metrics.IncCacheHit(metrics.EntityPost)
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("post cache read failed", "post_id", id, "error", err)
	} else {
		s.metrics.IncCacheMiss(metrics.EntityPost)
	}

	token := s.writes.token(id)
	post, err := s.store.GetPostByID(ctx, id)
	if err != nil {
		return nil, mapPostError(err)
	}

	if err := s.cache.SetPost(ctx, post); err != nil {
		s.logger.Warn("post cache backfill failed", "post_id", id, "error", err)
	}
	// A write that landed while we read may already have evicted; drop our copy.
	if s.writes.raced(id, token) {
		if err := s.cache.DeletePost(ctx, id); err != nil {
			s.logger.Warn("post cache eviction failed", "post_id", id, "error", err)
		}
	}

	return post, nil
}

// CreatePost persists a new post. The owner is not looked up first;
// an unknown user is reported by the store as ErrUnknownUser.
func (s *PostService) CreatePost(ctx context.Context, input CreatePostInput) (*model.Post, error) {
	if err := validateContent(input.Content); err != nil {
		return nil, err
	}

	post, err := s.store.CreatePost(ctx, input.Content, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUnknownUser) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.metrics.IncPostCreated()

	return post, nil
}

// UpdatePost merges patch onto the stored post and persists the result.
func (s *PostService) UpdatePost(ctx context.Context, id string, patch model.PostPatch) (*model.Post, error) {
	if patch.Content != nil {
		if err := validateContent(*patch.Content); err != nil {
			return nil, err
		}
	}

	existing, err := s.store.GetPostByID(ctx, id)
	if err != nil {
		return nil, mapPostError(err)
	}

	if patch.IsEmpty() {
		return existing, nil
	}

	merged := existing.Apply(patch)
	updated, err := s.store.UpdatePost(ctx, &merged)
	if err != nil {
		return nil, mapPostError(err)
	}

	s.metrics.IncPostUpdated()
	s.evictPost(ctx, id)

	return updated, nil
}

// DeletePost removes a post.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if err := s.store.DeletePost(ctx, id); err != nil {
		return mapPostError(err)
	}

	s.metrics.IncPostDeleted()
	s.evictPost(ctx, id)

	return nil
}

func (s *PostService) evictPost(ctx context.Context, id string) {
	s.writes.bump(id)
	if err := s.cache.DeletePost(ctx, id); err != nil {
		s.logger.Warn("post cache eviction failed", "post_id", id, "error", err)
	}
}

// mapPostError translates repository errors into service errors.
func mapPostError(err error) error {
	if errors.Is(err, repository.ErrPostNotFound) {
		return ErrPostNotFound
	}
	return err
}
