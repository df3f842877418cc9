package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Post represents a blog post with its comments.
type Post struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	Comments  []*Comment `json:"comments"`
}

// PostSummary is the list view of a post.
type PostSummary struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	CommentCount int       `json:"comment_count"`
}

// Comment represents a comment on a blog post.
type Comment struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	PostID    int       `json:"post_id"`
}

// NewPost is the body of a create post request.
type NewPost struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"required,min=1"`
}

// NewComment is the body of an add comment request.
type NewComment struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}
