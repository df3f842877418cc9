package services

import (
	"context"
	"log/slog"

	"blogapi/app/cache"
	"blogapi/app/models"
	"blogapi/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	cache       *cache.Cache
	logger      *slog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, c *cache.Cache, logger *slog.Logger) *CommentService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		cache:       c,
		logger:      logger,
	}
}

// AddComment validates and persists a comment on an existing post
func (s *CommentService) AddComment(ctx context.Context, postID int, req *models.NewComment) (*models.Comment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, repositories.ErrNotFound
	}

	comment, err := s.commentRepo.Create(ctx, postID, req.Content)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.PostsKey)
	s.cache.Invalidate(ctx, cache.PostKey(postID))
	s.logger.Debug("comment added", "post_id", postID, "comment_id", comment.ID)
	return comment, nil
}
