package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chirp/chirp/internal/model"
)

var (
	// ErrBlankContent is returned when a submitted draft is empty after trimming.
	ErrBlankContent = errors.New("post content is blank")
	// ErrNoUser is returned when the composer has no owning user.
	ErrNoUser = errors.New("no user selected")
)

// PostCreator creates posts. *Store satisfies it.
type PostCreator interface {
	CreatePost(ctx context.Context, userID, content string) (*model.Post, error)
}

// Composer holds the draft for a new post.
type Composer struct {
	userID  string
	creator PostCreator
	draft   string
}

// NewComposer returns a Composer posting as userID.
func NewComposer(creator PostCreator, userID string) *Composer {
	return &Composer{userID: userID, creator: creator}
}

// SetDraft replaces the draft, truncated to the maximum post length.
func (c *Composer) SetDraft(text string) {
	if model.ContentLength(text) > model.MaxPostLength {
		text = string([]rune(text)[:model.MaxPostLength])
	}
	c.draft = text
}

// Draft returns the current draft.
func (c *Composer) Draft() string {
	return c.draft
}

// Counter renders the draft length against the limit, e.g. "12/280".
func (c *Composer) Counter() string {
	return fmt.Sprintf("%d/%d", model.ContentLength(c.draft), model.MaxPostLength)
}

// CanSubmit reports whether Submit would send a request.
func (c *Composer) CanSubmit() bool {
	return c.userID != "" && !model.IsBlank(c.draft)
}

// Submit creates a post from the trimmed draft. The draft is cleared on
// success and kept on failure.
func (c *Composer) Submit(ctx context.Context) (*model.Post, error) {
	content := strings.TrimSpace(c.draft)
	if content == "" {
		return nil, ErrBlankContent
	}
	if c.userID == "" {
		return nil, ErrNoUser
	}

	post, err := c.creator.CreatePost(ctx, c.userID, content)
	if err != nil {
		return nil, err
	}
	c.draft = ""
	return post, nil
}
