package services

import (
	"context"
	"fmt"
	"log/slog"

	"blogapi/app/cache"
	"blogapi/app/models"
	"blogapi/app/repositories"
)

// PostService handles business logic for blog posts
type PostService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	cache       *cache.Cache
	logger      *slog.Logger
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, c *cache.Cache, logger *slog.Logger) *PostService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		cache:       c,
		logger:      logger,
	}
}

// ListPosts returns every post newest first, each with its comment count.
func (s *PostService) ListPosts(ctx context.Context) ([]*models.PostSummary, error) {
	if res := cache.Get[[]*models.PostSummary](ctx, s.cache, cache.PostsKey); res.Hit {
		return res.Value, nil
	}

	posts, err := s.postRepo.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, cache.PostsKey, posts)
	return posts, nil
}

// CreatePost validates and persists a new post
func (s *PostService) CreatePost(ctx context.Context, req *models.NewPost) (*models.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	post, err := s.postRepo.Create(ctx, req.Title, req.Content)
	if err != nil {
		return nil, err
	}
	post.Normalize()

	s.cache.Invalidate(ctx, cache.PostsKey)
	s.logger.Debug("post created", "post_id", post.ID)
	return post, nil
}

// GetPost retrieves a post by ID with its comments, oldest comment first
func (s *PostService) GetPost(ctx context.Context, id int) (*models.Post, error) {
	key := cache.PostKey(id)
	if res := cache.Get[*models.Post](ctx, s.cache, key); res.Hit && res.Value != nil {
		res.Value.Normalize()
		return res.Value, nil
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	for _, c := range comments {
		if err := post.AddComment(c); err != nil {
			return nil, fmt.Errorf("failed to attach comment %d: %w", c.ID, err)
		}
	}
	post.Normalize()

	s.cache.Set(ctx, key, post)
	return post, nil
}

// DeletePost deletes a post; its comments are removed by the store cascade.
func (s *PostService) DeletePost(ctx context.Context, id int) error {
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.PostsKey)
	s.cache.Invalidate(ctx, cache.PostKey(id))
	s.logger.Info("post deleted", "post_id", id)
	return nil
}
