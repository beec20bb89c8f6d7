package dto

import "github.com/chirp/chirp/internal/model"

// CreatePostRequest represents the request body for creating a post.
type CreatePostRequest struct {
	Content string `json:"content"`
	UserID  string `json:"userId"`
}

// UpdatePostRequest is a sparse patch. The owner of a post cannot change,
// so a userId in the body is ignored.
type UpdatePostRequest struct {
	Content *string `json:"content,omitempty"`
}

// Patch converts the request to a model patch.
func (r UpdatePostRequest) Patch() model.PostPatch {
	return model.PostPatch{Content: r.Content}
}
