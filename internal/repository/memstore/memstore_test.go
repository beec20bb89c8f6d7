package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/chirp/chirp/internal/model"
	"github.com/chirp/chirp/internal/repository"
)

func TestStore_PostsOrderedNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()

	u, err := s.CreateUser(ctx, "johndoe", nil)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	var ids []string
	for _, c := range []string{"first", "second", "third"} {
		p, err := s.CreatePost(ctx, c, u.ID)
		if err != nil {
			t.Fatalf("CreatePost: %v", err)
		}
		ids = append(ids, p.ID)
	}

	posts, err := s.ListPosts(ctx, "")
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if posts[i].ID != want {
			t.Errorf("posts[%d].ID = %s, want %s", i, posts[i].ID, want)
		}
	}
}

func TestStore_ForeignKey(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.CreatePost(ctx, "orphan", "4b7e1b0e-8f0c-4a53-b0a5-5a3bc7f0e001"); !errors.Is(err, repository.ErrUnknownUser) {
		t.Errorf("expected ErrUnknownUser, got %v", err)
	}

	u, _ := s.CreateUser(ctx, "alice", nil)
	if _, err := s.CreatePost(ctx, "hello", u.ID); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if err := s.DeleteUser(ctx, u.ID); !errors.Is(err, repository.ErrUserHasPosts) {
		t.Errorf("expected ErrUserHasPosts, got %v", err)
	}
	if users, posts := s.Len(); users != 1 || posts != 1 {
		t.Errorf("store changed: users=%d posts=%d", users, posts)
	}
}

func TestStore_ReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()

	avatar := "https://example.com/a.png"
	u, _ := s.CreateUser(ctx, "bob", &avatar)
	u.Username = "mutated"
	*u.Avatar = "mutated"

	got, err := s.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got.Username != "bob" || *got.Avatar != "https://example.com/a.png" {
		t.Errorf("stored user was mutated through returned pointer: %+v", got)
	}
}

func TestStore_UpdateMissing(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.UpdatePost(ctx, &model.Post{ID: "missing"}); !errors.Is(err, repository.ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
	if _, err := s.UpdateUser(ctx, &model.User{ID: "missing"}); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
