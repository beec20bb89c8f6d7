// Command seed fills an empty database with demo users and posts.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/chirp/chirp/internal/repository"
	"github.com/chirp/chirp/internal/seed"
	"github.com/chirp/chirp/internal/service"
)

func main() {
	databaseURL := flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if *databaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	users := service.NewUserService(repo, nil, nil, logger)
	posts := service.NewPostService(repo, nil, nil, logger)

	res, err := seed.Run(ctx, users, posts, logger)
	if err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}

	logger.Info("seed finished", "skipped", res.Skipped, "users", res.Users, "posts", res.Posts)
}
