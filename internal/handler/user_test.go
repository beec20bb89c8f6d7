package handler

import (
	"net/http"
	"testing"

	"github.com/chirp/chirp/internal/model"
)

func TestUserHandler_ListEmpty(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/users", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("expected empty JSON array, got %q", body)
	}
}

func TestUserHandler_CreateGetList(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/users", map[string]string{
		"username": "johndoe",
		"avatar":   "https://i.pravatar.cc/150?img=1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	var created map[string]any
	decodeBody(t, rec, &created)
	for _, key := range []string{"id", "username", "avatar", "createdAt", "updatedAt"} {
		if _, ok := created[key]; !ok {
			t.Errorf("response missing %q", key)
		}
	}
	id, _ := created["id"].(string)

	rec = api.do(t, http.MethodGet, "/users/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var got model.User
	decodeBody(t, rec, &got)
	if got.Username != "johndoe" {
		t.Errorf("Username = %q", got.Username)
	}

	rec = api.do(t, http.MethodGet, "/users", nil)
	var list []model.User
	decodeBody(t, rec, &list)
	if len(list) != 1 || list[0].ID != id {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestUserHandler_AvatarOmittedWhenUnset(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/users", map[string]string{"username": "bob"})
	var created map[string]any
	decodeBody(t, rec, &created)
	if _, ok := created["avatar"]; ok {
		t.Error("avatar should be omitted when unset")
	}
}

func TestUserHandler_Errors(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	testCases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"get missing", http.MethodGet, "/users/" + missingID, nil, http.StatusNotFound, "USER_NOT_FOUND"},
		{"get malformed id", http.MethodGet, "/users/abc", nil, http.StatusNotFound, "USER_NOT_FOUND"},
		{"patch missing", http.MethodPatch, "/users/" + missingID, map[string]string{"username": "x"}, http.StatusNotFound, "USER_NOT_FOUND"},
		{"delete missing", http.MethodDelete, "/users/" + missingID, nil, http.StatusNotFound, "USER_NOT_FOUND"},
		{"create bad json", http.MethodPost, "/users", "{", http.StatusBadRequest, "INVALID_JSON"},
		{"create blank username", http.MethodPost, "/users", map[string]string{"username": "  "}, http.StatusBadRequest, "INVALID_USERNAME"},
		{"unsupported method", http.MethodPut, "/users", nil, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := api.do(t, tc.method, tc.path, tc.body)
			assertError(t, rec, tc.status, tc.code)
		})
	}
}

func TestUserHandler_PatchMerges(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/users", map[string]string{
		"username": "janedoe",
		"avatar":   "https://i.pravatar.cc/150?img=5",
	})
	var created model.User
	decodeBody(t, rec, &created)

	rec = api.do(t, http.MethodPatch, "/users/"+created.ID, map[string]string{"username": "jane"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var updated model.User
	decodeBody(t, rec, &updated)

	if updated.Username != "jane" {
		t.Errorf("Username = %q, want jane", updated.Username)
	}
	if updated.Avatar == nil || *updated.Avatar != "https://i.pravatar.cc/150?img=5" {
		t.Errorf("avatar was not preserved: %v", updated.Avatar)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	u := api.createUser(t, "bob")

	rec := api.do(t, http.MethodDelete, "/users/"+u.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}

	rec = api.do(t, http.MethodGet, "/users/"+u.ID, nil)
	assertError(t, rec, http.StatusNotFound, "USER_NOT_FOUND")
}

func TestUserHandler_DeleteWithPosts(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	u := api.createUser(t, "alice")
	api.createPost(t, u.ID, "hello")

	rec := api.do(t, http.MethodDelete, "/users/"+u.ID, nil)
	assertError(t, rec, http.StatusConflict, "USER_HAS_POSTS")
}
