package store

import (
	"context"
	"fmt"

	"github.com/cesargomez89/melodeck/internal/domain"
)

type CommentRepo struct {
	db *DB
}

func NewCommentRepo(db *DB) *CommentRepo {
	return &CommentRepo{db: db}
}

func (r *CommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (user_id, music_id, text) VALUES (?, ?, ?)`, c.UserID, c.TrackID, c.Text)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read comment id: %w", err)
	}
	c.ID = id
	return nil
}

func (r *CommentRepo) ListAll(ctx context.Context) ([]*domain.Comment, error) {
	comments := []*domain.Comment{}
	err := r.db.SelectContext(ctx, &comments, `SELECT id, user_id, music_id, COALESCE(text, '') AS text FROM comments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
