package client

import (
	"context"
	"errors"
	"slices"

	"github.com/chirp/chirp/internal/model"
)

// ErrUserNotFound is returned by UserByUsername when no user matches.
var ErrUserNotFound = errors.New("user not found")

// Query key prefixes.
const (
	keyUsers          = "users"
	keyUser           = "user"
	keyUserByUsername = "user-by-username"
	keyPosts          = "posts"
	keyPost           = "post"
)

// Store is the cached read and write surface the CLI uses.
// Reads return copies, so callers may modify results freely.
type Store struct {
	api   *Client
	cache *QueryCache
}

// NewStore wraps api with an empty query cache.
func NewStore(api *Client) *Store {
	return &Store{api: api, cache: NewQueryCache()}
}

// Cache exposes the underlying query cache.
func (s *Store) Cache() *QueryCache {
	return s.cache
}

// Users returns every user.
func (s *Store) Users(ctx context.Context) ([]model.User, error) {
	users, err := query(ctx, s.cache, Key{keyUsers}, s.api.ListUsers)
	if err != nil {
		return nil, err
	}
	out := make([]model.User, len(users))
	for i := range users {
		out[i] = cloneUser(users[i])
	}
	return out, nil
}

// User returns one user by id.
func (s *Store) User(ctx context.Context, id string) (*model.User, error) {
	user, err := query(ctx, s.cache, Key{keyUser, id}, func(ctx context.Context) (*model.User, error) {
		return s.api.GetUser(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	clone := cloneUser(*user)
	return &clone, nil
}

// UserByUsername scans the full user list for the first exact match.
func (s *Store) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := query(ctx, s.cache, Key{keyUserByUsername, username}, func(ctx context.Context) (*model.User, error) {
		users, err := s.api.ListUsers(ctx)
		if err != nil {
			return nil, err
		}
		for i := range users {
			if users[i].Username == username {
				return &users[i], nil
			}
		}
		return nil, ErrUserNotFound
	})
	if err != nil {
		return nil, err
	}
	clone := cloneUser(*user)
	return &clone, nil
}

// Posts returns posts, filtered by owner when userID is set.
func (s *Store) Posts(ctx context.Context, userID string) ([]model.Post, error) {
	key := Key{keyPosts}
	if userID != "" {
		key = Key{keyPosts, userID}
	}
	posts, err := query(ctx, s.cache, key, func(ctx context.Context) ([]model.Post, error) {
		return s.api.ListPosts(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(posts), nil
}

// Post returns one post by id.
func (s *Store) Post(ctx context.Context, id string) (*model.Post, error) {
	post, err := query(ctx, s.cache, Key{keyPost, id}, func(ctx context.Context) (*model.Post, error) {
		return s.api.GetPost(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	clone := *post
	return &clone, nil
}

// CreatePost creates a post and invalidates the post lists.
func (s *Store) CreatePost(ctx context.Context, userID, content string) (*model.Post, error) {
	post, err := s.api.CreatePost(ctx, userID, content)
	if err != nil {
		return nil, err
	}
	s.invalidatePosts(userID)
	return post, nil
}

// UpdatePost updates a post and invalidates the post lists and the post itself.
func (s *Store) UpdatePost(ctx context.Context, userID, id, content string) (*model.Post, error) {
	post, err := s.api.UpdatePost(ctx, id, content)
	if err != nil {
		return nil, err
	}
	s.invalidatePosts(userID)
	s.cache.Invalidate(Key{keyPost, id})
	return post, nil
}

// DeletePost deletes a post and invalidates the post lists and the post itself.
func (s *Store) DeletePost(ctx context.Context, userID, id string) error {
	if err := s.api.DeletePost(ctx, id); err != nil {
		return err
	}
	s.invalidatePosts(userID)
	s.cache.Invalidate(Key{keyPost, id})
	return nil
}

// invalidatePosts drops the owner's list and, by prefix, every other post list.
func (s *Store) invalidatePosts(userID string) {
	s.cache.Invalidate(Key{keyPosts, userID})
	s.cache.Invalidate(Key{keyPosts})
}

func cloneUser(u model.User) model.User {
	if u.Avatar != nil {
		avatar := *u.Avatar
		u.Avatar = &avatar
	}
	return u
}
