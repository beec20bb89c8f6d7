package client

import (
	"context"
	"errors"
	"strings"

	"github.com/chirp/chirp/internal/model"
)

// EditState is the state of a PostEditor.
type EditState int

const (
	Viewing EditState = iota
	Editing
)

func (s EditState) String() string {
	if s == Editing {
		return "editing"
	}
	return "viewing"
}

// ErrNotEditing is returned by Save outside the Editing state.
var ErrNotEditing = errors.New("post is not being edited")

// ErrEditing is returned by Delete while an edit is in progress.
var ErrEditing = errors.New("post is being edited")

// PostMutator updates and deletes posts. *Store satisfies it.
type PostMutator interface {
	UpdatePost(ctx context.Context, userID, id, content string) (*model.Post, error)
	DeletePost(ctx context.Context, userID, id string) error
}

// PostEditor drives the edit and delete controls of a single post row.
type PostEditor struct {
	post    model.Post
	mutator PostMutator
	state   EditState
	draft   string
}

// NewPostEditor returns an editor for post in the Viewing state.
func NewPostEditor(mutator PostMutator, post model.Post) *PostEditor {
	return &PostEditor{post: post, mutator: mutator}
}

// Post returns the post as last known to the editor.
func (e *PostEditor) Post() model.Post {
	return e.post
}

// State returns the current state.
func (e *PostEditor) State() EditState {
	return e.state
}

// Draft returns the edit buffer.
func (e *PostEditor) Draft() string {
	return e.draft
}

// StartEdit copies the post content into the draft and enters Editing.
func (e *PostEditor) StartEdit() {
	e.draft = e.post.Content
	e.state = Editing
}

// SetDraft replaces the edit buffer. It has no effect while Viewing.
func (e *PostEditor) SetDraft(text string) {
	if e.state == Editing {
		e.draft = text
	}
}

// Cancel discards the draft and returns to Viewing.
func (e *PostEditor) Cancel() {
	e.draft = ""
	e.state = Viewing
}

// Save submits the trimmed draft. On success the editor returns to Viewing
// with the updated post; on failure it stays Editing with the draft intact.
func (e *PostEditor) Save(ctx context.Context) error {
	if e.state != Editing {
		return ErrNotEditing
	}
	content := strings.TrimSpace(e.draft)
	if content == "" {
		return ErrBlankContent
	}

	updated, err := e.mutator.UpdatePost(ctx, e.post.UserID, e.post.ID, content)
	if err != nil {
		return err
	}
	e.post = *updated
	e.draft = ""
	e.state = Viewing
	return nil
}

// Delete asks confirm and, if it returns true, deletes the post.
// It reports whether a delete was performed.
func (e *PostEditor) Delete(ctx context.Context, confirm func() bool) (bool, error) {
	if e.state != Viewing {
		return false, ErrEditing
	}
	if confirm != nil && !confirm() {
		return false, nil
	}
	if err := e.mutator.DeletePost(ctx, e.post.UserID, e.post.ID); err != nil {
		return false, err
	}
	return true, nil
}
