package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/chirp/chirp/internal/handler/dto"
	"github.com/chirp/chirp/internal/metrics"
	"github.com/chirp/chirp/internal/model"
	"github.com/chirp/chirp/internal/repository/memstore"
	"github.com/chirp/chirp/internal/service"
	"github.com/chirp/chirp/internal/testutil"
)

const missingID = "00000000-0000-4000-8000-000000000000"

type testAPI struct {
	router  http.Handler
	store   *memstore.Store
	metrics *metrics.InMemoryRecorder
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.New()
	c := testutil.NewMapCache()
	rec := metrics.NewInMemory()

	users := NewUserHandler(service.NewUserService(store, c, rec, logger), logger)
	posts := NewPostHandler(service.NewPostService(store, c, rec, logger), logger)
	h := New()

	r := chi.NewRouter()
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)
	r.Route("/users", func(r chi.Router) {
		r.Get("/", users.List)
		r.Post("/", users.Create)
		r.Get("/{id}", users.Get)
		r.Patch("/{id}", users.Update)
		r.Delete("/{id}", users.Delete)
	})
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", posts.List)
		r.Post("/", posts.Create)
		r.Get("/{id}", posts.Get)
		r.Patch("/{id}", posts.Update)
		r.Delete("/{id}", posts.Delete)
	})

	return &testAPI{router: r, store: store, metrics: rec}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) createUser(t *testing.T, username string) model.User {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/users", map[string]string{"username": username})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user: status %d, body %s", rec.Code, rec.Body.String())
	}
	var u model.User
	decodeBody(t, rec, &u)
	return u
}

func (a *testAPI) createPost(t *testing.T, userID, content string) model.Post {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/posts", map[string]string{"userId": userID, "content": content})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post: status %d, body %s", rec.Code, rec.Body.String())
	}
	var p model.Post
	decodeBody(t, rec, &p)
	return p
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response: %v (body %q)", err, rec.Body.String())
	}
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d (body %s)", status, rec.Code, rec.Body.String())
	}
	var resp dto.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Code != code {
		t.Errorf("expected code %s, got %s", code, resp.Code)
	}
	if resp.Error == "" {
		t.Error("expected error message")
	}
}
