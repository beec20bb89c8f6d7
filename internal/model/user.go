// Package model defines domain entities for the application.
package model

import (
	"strings"
	"time"
)

// User is the owner of posts.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Avatar    *string   `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserPatch carries the user fields to overwrite. Nil fields are left as is.
type UserPatch struct {
	Username *string
	Avatar   *string
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Username == nil && p.Avatar == nil
}

// Apply returns a copy of u with the patch merged in.
// Store-assigned fields (ID, timestamps) are never touched.
func (u User) Apply(p UserPatch) User {
	merged := u
	if p.Username != nil {
		merged.Username = *p.Username
	}
	if p.Avatar != nil {
		avatar := *p.Avatar
		merged.Avatar = &avatar
	}
	return merged
}

// ValidUsername reports whether a username is usable.
func ValidUsername(username string) bool {
	return strings.TrimSpace(username) != ""
}
