package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxPostLength is the maximum post length in characters.
const MaxPostLength = 280

// Post is a short text message owned by a user.
type Post struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostPatch carries the post fields to overwrite.
// The owner is fixed at creation, so there is no user field.
type PostPatch struct {
	Content *string
}

// IsEmpty reports whether the patch changes nothing.
func (p PostPatch) IsEmpty() bool {
	return p.Content == nil
}

// Apply returns a copy of p with the patch merged in.
func (p Post) Apply(patch PostPatch) Post {
	merged := p
	if patch.Content != nil {
		merged.Content = *patch.Content
	}
	return merged
}

// ContentLength counts characters the way the post limit does (code points).
func ContentLength(content string) int {
	return utf8.RuneCountInString(content)
}

// IsBlank reports whether content holds only whitespace.
func IsBlank(content string) bool {
	return strings.TrimSpace(content) == ""
}
