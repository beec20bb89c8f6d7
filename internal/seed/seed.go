// Package seed fills an empty database with demo users and posts.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chirp/chirp/internal/service"
)

type demoUser struct {
	Username string
	Avatar   string
}

type demoPost struct {
	Content string
	Author  int // index into Users
}

// Users are created in this order.
var Users = []demoUser{
	{Username: "johndoe", Avatar: "https://i.pravatar.cc/150?img=1"},
	{Username: "janedoe", Avatar: "https://i.pravatar.cc/150?img=5"},
	{Username: "alice", Avatar: "https://i.pravatar.cc/150?img=9"},
	{Username: "bob", Avatar: "https://i.pravatar.cc/150?img=12"},
}

// Posts are created in this order after Users.
var Posts = []demoPost{
	{Content: "Just launched my new project! Excited to share it with the world. 🚀", Author: 0},
	{Content: "Beautiful sunset today! Nature never fails to amaze me. 🌅", Author: 0},
	{Content: "Working on something exciting. Stay tuned! 💻", Author: 1},
	{Content: "Coffee and code - the perfect combination ☕", Author: 1},
	{Content: "Just finished reading an amazing book. Highly recommend! 📚", Author: 2},
	{Content: "Weekend vibes! Time to relax and recharge. 😎", Author: 2},
	{Content: "Learning new technologies is always fun! 🎓", Author: 3},
	{Content: "Great meeting today with the team. Lots of progress! 👥", Author: 3},
	{Content: "Random thought: What if we could code in our dreams? 🤔", Author: 0},
	{Content: "The best part of coding is seeing your ideas come to life! ✨", Author: 1},
}

// Result reports what Run did.
type Result struct {
	Skipped bool
	Users   int
	Posts   int
}

// Run seeds through the service layer. It does nothing when any user exists.
func Run(ctx context.Context, users *service.UserService, posts *service.PostService, logger *slog.Logger) (Result, error) {
	existing, err := users.ListUsers(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list users: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("database already seeded, skipping", "users", len(existing))
		return Result{Skipped: true}, nil
	}

	ids := make([]string, 0, len(Users))
	for _, u := range Users {
		avatar := u.Avatar
		created, err := users.CreateUser(ctx, service.CreateUserInput{
			Username: u.Username,
			Avatar:   &avatar,
		})
		if err != nil {
			return Result{Users: len(ids)}, fmt.Errorf("failed to create user %s: %w", u.Username, err)
		}
		ids = append(ids, created.ID)
	}
	logger.Info("seeded users", "count", len(ids))

	var created int
	for _, p := range Posts {
		if _, err := posts.CreatePost(ctx, service.CreatePostInput{
			Content: p.Content,
			UserID:  ids[p.Author],
		}); err != nil {
			return Result{Users: len(ids), Posts: created}, fmt.Errorf("failed to create post: %w", err)
		}
		created++
	}
	logger.Info("seeded posts", "count", created)

	return Result{Users: len(ids), Posts: created}, nil
}
