// Package memstore is an in-memory stand-in for the PostgreSQL repository.
// It mirrors the repository's observable behaviour: store-assigned UUIDs and
// timestamps, newest-first post listing, the posts.user_id foreign key and
// the repository's sentinel errors.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chirp/chirp/internal/model"
	"github.com/chirp/chirp/internal/repository"
)

// Store holds users and posts in memory. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	users map[string]model.User
	posts map[string]model.Post
	now   func() time.Time
	last  time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users: make(map[string]model.User),
		posts: make(map[string]model.Post),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// tick returns a timestamp strictly after the previous one so creation
// order is always recoverable from created_at. Caller holds mu.
func (s *Store) tick() time.Time {
	t := s.now()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

// cloneUser copies u including the avatar pointer target.
func cloneUser(u model.User) *model.User {
	if u.Avatar != nil {
		a := *u.Avatar
		u.Avatar = &a
	}
	return &u
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// ListUsers returns every user, oldest first.
func (s *Store) ListUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// CreateUser inserts a user with a generated id and timestamps.
func (s *Store) CreateUser(ctx context.Context, username string, avatar *string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick()
	u := model.User{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if avatar != nil {
		a := *avatar
		u.Avatar = &a
	}
	s.users[u.ID] = u
	return cloneUser(u), nil
}

// UpdateUser persists username and avatar.
func (s *Store) UpdateUser(ctx context.Context, user *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[user.ID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	u.Username = user.Username
	u.Avatar = nil
	if user.Avatar != nil {
		a := *user.Avatar
		u.Avatar = &a
	}
	u.UpdatedAt = s.tick()
	s.users[u.ID] = u
	return cloneUser(u), nil
}

// DeleteUser removes a user that owns no posts.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	for _, p := range s.posts {
		if p.UserID == id {
			return repository.ErrUserHasPosts
		}
	}
	delete(s.users, id)
	return nil
}

// ListPosts returns posts newest first, optionally filtered by owner.
func (s *Store) ListPosts(ctx context.Context, userID string) ([]*model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]*model.Post, 0)
	for _, p := range s.posts {
		if userID != "" && p.UserID != userID {
			continue
		}
		p := p
		posts = append(posts, &p)
	}
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

// GetPostByID retrieves a post by ID.
func (s *Store) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	return &p, nil
}

// CreatePost inserts a post owned by an existing user.
func (s *Store) CreatePost(ctx context.Context, content, userID string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validID(userID) {
		return nil, repository.ErrUnknownUser
	}
	if _, ok := s.users[userID]; !ok {
		return nil, repository.ErrUnknownUser
	}

	now := s.tick()
	p := model.Post{
		ID:        uuid.NewString(),
		Content:   content,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.posts[p.ID] = p
	return &p, nil
}

// UpdatePost persists post content.
func (s *Store) UpdatePost(ctx context.Context, post *model.Post) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[post.ID]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	p.Content = post.Content
	p.UpdatedAt = s.tick()
	s.posts[p.ID] = p
	return &p, nil
}

// DeletePost removes a post.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return repository.ErrPostNotFound
	}
	delete(s.posts, id)
	return nil
}

// Len reports how many users and posts are stored.
func (s *Store) Len() (users, posts int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), len(s.posts)
}
