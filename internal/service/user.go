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

// UserService handles user business logic.
type UserService struct {
	store   UserStore
	cache   RecordCache
	metrics metrics.Recorder
	logger  *slog.Logger
	writes  writeGuard
}

// NewUserService creates a new UserService. A nil cache, recorder or
// logger falls back to a no-op implementation.
func NewUserService(store UserStore, c RecordCache, recorder metrics.Recorder, logger *slog.Logger) *UserService {
	if c == nil {
		c = cache.Noop{}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &UserService{
		store:   store,
		cache:   c,
		metrics: recorder,
		logger:  logger,
	}
}

// CreateUserInput defines input for creating a user.
type CreateUserInput struct {
	Username string
	Avatar   *string
}

// ListUsers returns all users. The result is never nil.
func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*model.User{}
	}
	return users, nil
}

// GetUser retrieves a user by ID, cache first.
func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	cached, err := s.cache.GetUser(ctx, id)
	if err == nil {
		s.metrics.IncCacheHit(metrics.EntityUser)
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("user cache read failed", "user_id", id, "error", err)
	} else {
		s.metrics.IncCacheMiss(metrics.EntityUser)
	}

	token := s.writes.token(id)
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, mapUserError(err)
	}

	if err := s.cache.SetUser(ctx, user); err != nil {
		s.logger.Warn("user cache backfill failed", "user_id", id, "error", err)
	}
	// A write that landed while we read may already have evicted; drop our copy.
	if s.writes.raced(id, token) {
		if err := s.cache.DeleteUser(ctx, id); err != nil {
			s.logger.Warn("user cache eviction failed", "user_id", id, "error", err)
		}
	}

	return user, nil
}

// CreateUser persists a new user. Username uniqueness is not enforced.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	if !model.ValidUsername(input.Username) {
		return nil, ErrInvalidUsername
	}

	user, err := s.store.CreateUser(ctx, input.Username, input.Avatar)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserCreated()

	return user, nil
}

// UpdateUser merges patch onto the stored user and persists the result.
func (s *UserService) UpdateUser(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	if patch.Username != nil && !model.ValidUsername(*patch.Username) {
		return nil, ErrInvalidUsername
	}

	existing, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, mapUserError(err)
	}

	if patch.IsEmpty() {
		return existing, nil
	}

	merged := existing.Apply(patch)
	updated, err := s.store.UpdateUser(ctx, &merged)
	if err != nil {
		return nil, mapUserError(err)
	}

	s.metrics.IncUserUpdated()
	s.evictUser(ctx, id)

	return updated, nil
}

// DeleteUser removes a user. Users that still own posts cannot be deleted.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return mapUserError(err)
	}

	s.metrics.IncUserDeleted()
	s.evictUser(ctx, id)

	return nil
}

func (s *UserService) evictUser(ctx context.Context, id string) {
	s.writes.bump(id)
	if err := s.cache.DeleteUser(ctx, id); err != nil {
		s.logger.Warn("user cache eviction failed", "user_id", id, "error", err)
	}
}

// mapUserError translates repository errors into service errors.
func mapUserError(err error) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrUserHasPosts):
		return ErrUserHasPosts
	default:
		return err
	}
}
