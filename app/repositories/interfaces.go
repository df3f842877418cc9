package repositories

import (
	"context"

	"blogapi/app/models"
)

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(ctx context.Context, title, content string) (*models.Post, error)
	GetByID(ctx context.Context, id int) (*models.Post, error)
	Exists(ctx context.Context, id int) (bool, error)
	ListSummaries(ctx context.Context) ([]*models.PostSummary, error)
	Delete(ctx context.Context, id int) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, postID int, content string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID int) ([]*models.Comment, error)
}
