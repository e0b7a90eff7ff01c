package app

import (
	"context"

	"github.com/cesargomez89/melodeck/internal/domain"
	"github.com/cesargomez89/melodeck/internal/logger"
	"github.com/cesargomez89/melodeck/internal/sanitize"
)

type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	ListAll(ctx context.Context) ([]*domain.Comment, error)
}

type CommentService struct {
	Repo   CommentRepository
	Logger *logger.Logger
}

func NewCommentService(repo CommentRepository, log *logger.Logger) *CommentService {
	return &CommentService{Repo: repo, Logger: log.WithComponent("comments")}
}

// Create posts to the global feed. Comments are never tied to a track.
func (s *CommentService) Create(ctx context.Context, userID *int64, text string) (*domain.Comment, error) {
	c := &domain.Comment{UserID: userID, Text: sanitize.String(text)}
	if err := s.Repo.Create(ctx, c); err != nil {
		s.Logger.Error("Error adding comment", "error", err)
		return nil, err
	}
	return c, nil
}

func (s *CommentService) List(ctx context.Context) ([]*domain.Comment, error) {
	comments, err := s.Repo.ListAll(ctx)
	if err != nil {
		s.Logger.Error("Error fetching comments", "error", err)
		return nil, err
	}
	return comments, nil
}
