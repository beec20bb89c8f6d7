package dto

import "github.com/chirp/chirp/internal/model"

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	Username string  `json:"username"`
	Avatar   *string `json:"avatar,omitempty"`
}

// UpdateUserRequest is a sparse patch; absent fields keep their value.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

// Patch converts the request to a model patch.
func (r UpdateUserRequest) Patch() model.UserPatch {
	return model.UserPatch{
		Username: r.Username,
		Avatar:   r.Avatar,
	}
}
