package routes

import (
	"log/slog"
	"net/http"

	"blogapi/app/controllers"
	"blogapi/app/middleware"
	"blogapi/app/services"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Config carries the services and options the router needs.
type Config struct {
	PostService    *services.PostService
	CommentService *services.CommentService
	Logger         *slog.Logger
	AllowedOrigins []string
}

// SetupRoutes defines the application's routes and returns the HTTP handler.
func SetupRoutes(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.ContentTypeJSON)

	postController := controllers.NewPostController(cfg.PostService, logger)
	commentController := controllers.NewCommentController(cfg.CommentService, logger)
	systemController := controllers.NewSystemController()

	router.HandleFunc("/", systemController.Root).Methods(http.MethodGet)
	router.HandleFunc("/health", systemController.Health).Methods(http.MethodGet)
	router.HandleFunc("/docs", systemController.Docs).Methods(http.MethodGet)

	// Posts API endpoints. They sit on the root router so a method mismatch
	// reaches MethodNotAllowedHandler.
	router.HandleFunc("/api/posts", postController.Index).Methods(http.MethodGet)
	router.HandleFunc("/api/posts", postController.Create).Methods(http.MethodPost)
	router.HandleFunc("/api/posts/{id}", postController.Show).Methods(http.MethodGet)

	// Comments API endpoints
	router.HandleFunc("/api/posts/{id}/comments", commentController.Create).Methods(http.MethodPost)

	router.NotFoundHandler = jsonError(http.StatusNotFound, "Not found")
	router.MethodNotAllowedHandler = jsonError(http.StatusMethodNotAllowed, "Method not allowed")

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	return c.Handler(router)
}

func jsonError(status int, message string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(`{"error":"` + message + `"}` + "\n"))
	})
}
