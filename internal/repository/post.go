package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/chirp/chirp/internal/model"
)

// Common errors for post repository operations.
var (
	ErrPostNotFound = errors.New("post not found")
	ErrUnknownUser  = errors.New("post references a nonexistent user")
)

const postColumns = `id, content, user_id, created_at, updated_at`

// ListPosts returns posts newest first. An empty userID lists every post;
// otherwise only that user's posts are returned.
func (r *Repository) ListPosts(ctx context.Context, userID string) ([]*model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`
	args := []any{}

	if userID != "" {
		if !validID(userID) {
			return []*model.Post{}, nil
		}
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}

	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*model.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, nil
}

// GetPostByID retrieves a post by its ID.
func (r *Repository) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	if !validID(id) {
		return nil, ErrPostNotFound
	}

	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post by ID: %w", err)
	}

	return post, nil
}

// CreatePost inserts a new post. The owner is not checked up front; the
// foreign key rejects unknown users.
func (r *Repository) CreatePost(ctx context.Context, content, userID string) (*model.Post, error) {
	if !validID(userID) {
		return nil, ErrUnknownUser
	}

	query := `
		INSERT INTO posts (content, user_id)
		VALUES ($1, $2)
		RETURNING ` + postColumns

	post, err := scanPost(r.pool.QueryRow(ctx, query, content, userID))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return post, nil
}

// UpdatePost persists the content of post and returns the stored row.
func (r *Repository) UpdatePost(ctx context.Context, post *model.Post) (*model.Post, error) {
	if !validID(post.ID) {
		return nil, ErrPostNotFound
	}

	query := `
		UPDATE posts
		SET content = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + postColumns

	updated, err := scanPost(r.pool.QueryRow(ctx, query, post.ID, post.Content))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return updated, nil
}

// DeletePost removes a post.
func (r *Repository) DeletePost(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrPostNotFound
	}

	result, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrPostNotFound
	}

	return nil
}

// scanPost scans a single row into a Post model.
func scanPost(row pgx.Row) (*model.Post, error) {
	var post model.Post
	err := row.Scan(
		&post.ID,
		&post.Content,
		&post.UserID,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}
