package controllers

import (
	"log/slog"
	"net/http"

	"blogapi/app/models"
	"blogapi/app/services"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	commentService *services.CommentService
	logger         *slog.Logger
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService, logger *slog.Logger) *CommentController {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CommentController{commentService: commentService, logger: logger}
}

// Create handles adding a comment to a post
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id")
	if err != nil {
		sendServiceError(w, r, cc.logger, err)
		return
	}

	var req models.NewComment
	if err := decodeJSON(w, r, &req); err != nil {
		sendServiceError(w, r, cc.logger, err)
		return
	}

	comment, err := cc.commentService.AddComment(r.Context(), postID, &req)
	if err != nil {
		sendServiceError(w, r, cc.logger, err)
		return
	}
	sendJSON(w, http.StatusCreated, comment)
}
