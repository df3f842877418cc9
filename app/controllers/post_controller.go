package controllers

import (
	"log/slog"
	"net/http"

	"blogapi/app/models"
	"blogapi/app/services"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	postService *services.PostService
	logger      *slog.Logger
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, logger *slog.Logger) *PostController {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PostController{postService: postService, logger: logger}
}

// Index handles listing all posts
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPosts(r.Context())
	if err != nil {
		sendServiceError(w, r, pc.logger, err)
		return
	}
	sendJSON(w, http.StatusOK, posts)
}

// Show handles displaying a single post with its comments
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendServiceError(w, r, pc.logger, err)
		return
	}

	post, err := pc.postService.GetPost(r.Context(), id)
	if err != nil {
		sendServiceError(w, r, pc.logger, err)
		return
	}
	sendJSON(w, http.StatusOK, post)
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NewPost
	if err := decodeJSON(w, r, &req); err != nil {
		sendServiceError(w, r, pc.logger, err)
		return
	}

	post, err := pc.postService.CreatePost(r.Context(), &req)
	if err != nil {
		sendServiceError(w, r, pc.logger, err)
		return
	}
	sendJSON(w, http.StatusCreated, post)
}
