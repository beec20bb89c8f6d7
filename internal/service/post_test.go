package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/chirp/chirp/internal/metrics"
	"github.com/chirp/chirp/internal/model"
	"github.com/chirp/chirp/internal/repository/memstore"
	"github.com/chirp/chirp/internal/testutil"
)

type postTestEnv struct {
	ctx   context.Context
	svc   *PostService
	users *UserService
	store *memstore.Store
	cache *testutil.MapCache
	rec   *metrics.InMemoryRecorder
}

func newPostTestEnv(t *testing.T) *postTestEnv {
	t.Helper()
	store := memstore.New()
	c := testutil.NewMapCache()
	rec := metrics.NewInMemory()
	return &postTestEnv{
		ctx:   context.Background(),
		svc:   NewPostService(store, c, rec, nil),
		users: NewUserService(store, c, rec, nil),
		store: store,
		cache: c,
		rec:   rec,
	}
}

func (e *postTestEnv) user(t *testing.T, name string) *model.User {
	t.Helper()
	u, err := e.users.CreateUser(e.ctx, CreateUserInput{Username: name})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return u
}

func (e *postTestEnv) post(t *testing.T, userID, content string) *model.Post {
	t.Helper()
	p, err := e.svc.CreatePost(e.ctx, CreatePostInput{Content: content, UserID: userID})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	return p
}

func TestPostService_CreateAndListByUser(t *testing.T) {
	env := newPostTestEnv(t)

	john := env.user(t, "johndoe")
	env.post(t, john.ID, "hello")

	posts, err := env.svc.ListPosts(env.ctx, john.ID)
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	if posts[0].Content != "hello" || posts[0].UserID != john.ID {
		t.Errorf("unexpected post: %+v", posts[0])
	}
}

func TestPostService_ListFiltersAndOrders(t *testing.T) {
	env := newPostTestEnv(t)

	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	a1 := env.post(t, alice.ID, "a1")
	b1 := env.post(t, bob.ID, "b1")
	a2 := env.post(t, alice.ID, "a2")

	testCases := []struct {
		name   string
		userID string
		want   []string
	}{
		{"all posts newest first", "", []string{a2.ID, b1.ID, a1.ID}},
		{"alice only", alice.ID, []string{a2.ID, a1.ID}},
		{"bob only", bob.ID, []string{b1.ID}},
		{"unknown user", missingID, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			posts, err := env.svc.ListPosts(env.ctx, tc.userID)
			if err != nil {
				t.Fatalf("ListPosts failed: %v", err)
			}
			if posts == nil {
				t.Fatal("expected non-nil slice")
			}
			if len(posts) != len(tc.want) {
				t.Fatalf("got %d posts, want %d", len(posts), len(tc.want))
			}
			for i, id := range tc.want {
				if posts[i].ID != id {
					t.Errorf("posts[%d] = %s, want %s", i, posts[i].ID, id)
				}
				if tc.userID != "" && posts[i].UserID != tc.userID {
					t.Errorf("posts[%d] belongs to %s", i, posts[i].UserID)
				}
			}
		})
	}
}

func TestPostService_RoundTripContent(t *testing.T) {
	env := newPostTestEnv(t)
	u := env.user(t, "alice")

	testCases := []string{
		"hi",
		"  leading and trailing  ",
		"Coffee and code - the perfect combination ☕",
		strings.Repeat("x", model.MaxPostLength),
		strings.Repeat("é", model.MaxPostLength),
	}

	for _, content := range testCases {
		created := env.post(t, u.ID, content)
		got, err := env.svc.GetPost(env.ctx, created.ID)
		if err != nil {
			t.Fatalf("GetPost failed: %v", err)
		}
		if got.Content != content {
			t.Errorf("content mismatch: got %q, want %q", got.Content, content)
		}
	}
}

func TestPostService_CreateValidation(t *testing.T) {
	env := newPostTestEnv(t)
	u := env.user(t, "alice")

	testCases := []struct {
		name    string
		content string
		wantErr error
	}{
		{"empty", "", ErrEmptyContent},
		{"whitespace", " \n\t ", ErrEmptyContent},
		{"too long", strings.Repeat("a", model.MaxPostLength+1), ErrContentTooLong},
		{"too long multibyte", strings.Repeat("☕", model.MaxPostLength+1), ErrContentTooLong},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.CreatePost(env.ctx, CreatePostInput{Content: tc.content, UserID: u.ID})
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	if _, posts := env.store.Len(); posts != 0 {
		t.Errorf("invalid posts were stored: %d", posts)
	}
}

func TestPostService_CreateUnknownUser(t *testing.T) {
	env := newPostTestEnv(t)

	for _, userID := range []string{missingID, "not-a-uuid"} {
		_, err := env.svc.CreatePost(env.ctx, CreatePostInput{Content: "hello", UserID: userID})
		if !errors.Is(err, ErrUnknownUser) {
			t.Errorf("CreatePost(user=%q): expected ErrUnknownUser, got %v", userID, err)
		}
	}
}

func TestPostService_UpdateKeepsOwner(t *testing.T) {
	env := newPostTestEnv(t)
	u := env.user(t, "alice")
	created := env.post(t, u.ID, "hi")

	updated, err := env.svc.UpdatePost(env.ctx, created.ID, model.PostPatch{Content: testutil.StrPtr("bye")})
	if err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}
	if updated.Content != "bye" {
		t.Errorf("Content = %q, want %q", updated.Content, "bye")
	}
	if updated.UserID != u.ID {
		t.Errorf("UserID = %q, want %q", updated.UserID, u.ID)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("CreatedAt must not change")
	}
	if env.rec.Snapshot().PostsUpdated != 1 {
		t.Error("expected PostsUpdated = 1")
	}
}

func TestPostService_UpdateValidation(t *testing.T) {
	env := newPostTestEnv(t)
	u := env.user(t, "alice")
	created := env.post(t, u.ID, "hi")

	_, err := env.svc.UpdatePost(env.ctx, created.ID, model.PostPatch{Content: testutil.StrPtr(strings.Repeat("a", 281))})
	if !errors.Is(err, ErrContentTooLong) {
		t.Errorf("expected ErrContentTooLong, got %v", err)
	}

	got, _ := env.svc.GetPost(env.ctx, created.ID)
	if got.Content != "hi" {
		t.Errorf("rejected update changed content to %q", got.Content)
	}
}

func TestPostService_UpdateEvictsCache(t *testing.T) {
	env := newPostTestEnv(t)
	u := env.user(t, "alice")
	created := env.post(t, u.ID, "hi")

	_, _ = env.svc.GetPost(env.ctx, created.ID)
	if !env.cache.HasPost(created.ID) {
		t.Fatal("expected post to be cached after read")
	}

	if _, err := env.svc.UpdatePost(env.ctx, created.ID, model.PostPatch{Content: testutil.StrPtr("bye")}); err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}
	if env.cache.HasPost(created.ID) {
		t.Error("expected cache eviction on update")
	}

	got, _ := env.svc.GetPost(env.ctx, created.ID)
	if got.Content != "bye" {
		t.Errorf("stale read after update: %q", got.Content)
	}
}

func TestPostService_MissingIDs(t *testing.T) {
	env := newPostTestEnv(t)

	if _, err := env.svc.GetPost(env.ctx, missingID); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("GetPost: expected ErrPostNotFound, got %v", err)
	}
	if _, err := env.svc.UpdatePost(env.ctx, missingID, model.PostPatch{Content: testutil.StrPtr("x")}); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("UpdatePost: expected ErrPostNotFound, got %v", err)
	}
}

func TestPostService_DeleteMissingLeavesStoreUnchanged(t *testing.T) {
	env := newPostTestEnv(t)
	u := env.user(t, "alice")
	env.post(t, u.ID, "keep me")

	if err := env.svc.DeletePost(env.ctx, missingID); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
	if _, posts := env.store.Len(); posts != 1 {
		t.Errorf("expected 1 post to remain, got %d", posts)
	}
	if env.rec.Snapshot().PostsDeleted != 0 {
		t.Error("failed delete should not be counted")
	}
}

func TestPostService_Delete(t *testing.T) {
	env := newPostTestEnv(t)
	u := env.user(t, "alice")
	created := env.post(t, u.ID, "bye soon")
	_, _ = env.svc.GetPost(env.ctx, created.ID)

	if err := env.svc.DeletePost(env.ctx, created.ID); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if env.cache.HasPost(created.ID) {
		t.Error("expected cache eviction on delete")
	}
	if _, err := env.svc.GetPost(env.ctx, created.ID); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound after delete, got %v", err)
	}

	posts, _ := env.svc.ListPosts(env.ctx, u.ID)
	if len(posts) != 0 {
		t.Errorf("expected no posts after delete, got %d", len(posts))
	}
}

type readHookPostStore struct {
	*memstore.Store
	onRead func()
}

func (s *readHookPostStore) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.Store.GetPostByID(ctx, id)
	if hook := s.onRead; hook != nil {
		s.onRead = nil
		hook()
	}
	return post, err
}

func TestPostService_GetDoesNotCacheRecordOverwrittenDuringRead(t *testing.T) {
	ctx := context.Background()
	store := &readHookPostStore{Store: memstore.New()}
	c := testutil.NewMapCache()
	svc := NewPostService(store, c, nil, nil)

	user, err := store.CreateUser(ctx, "alice", nil)
	if err != nil {
		t.Fatal(err)
	}
	post, err := store.CreatePost(ctx, "hi", user.ID)
	if err != nil {
		t.Fatal(err)
	}

	store.onRead = func() {
		if _, err := svc.UpdatePost(ctx, post.ID, model.PostPatch{Content: testutil.StrPtr("bye")}); err != nil {
			t.Errorf("UpdatePost failed: %v", err)
		}
	}

	if _, err := svc.GetPost(ctx, post.ID); err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if c.HasPost(post.ID) {
		t.Fatal("record read before the update must not stay cached")
	}

	got, err := svc.GetPost(ctx, post.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "bye" {
		t.Errorf("content = %q, want bye", got.Content)
	}
}
