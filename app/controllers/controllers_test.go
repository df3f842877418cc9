package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blogapi/app/cache"
	"blogapi/app/models"
	"blogapi/app/repositories"
	"blogapi/app/repositories/mock"
	"blogapi/app/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *mux.Router {
	logger := slog.New(slog.DiscardHandler)
	c := cache.New(cache.NoopBackend{}, 0, logger)
	postRepo, commentRepo := mock.NewRepositories()

	postController := NewPostController(services.NewPostService(postRepo, commentRepo, c, logger), logger)
	commentController := NewCommentController(services.NewCommentService(commentRepo, postRepo, c, logger), logger)

	router := mux.NewRouter()
	router.HandleFunc("/posts", postController.Create).Methods("POST")
	router.HandleFunc("/posts", postController.Index).Methods("GET")
	router.HandleFunc("/posts/{id}", postController.Show).Methods("GET")
	router.HandleFunc("/posts/{id}/comments", commentController.Create).Methods("POST")
	return router
}

func TestPostAndCommentControllers(t *testing.T) {
	router := setupRouter(t)

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("create post", func(t *testing.T) {
		w := serve(http.MethodPost, "/posts", `{
			"title": "Test Post",
			"content": "This is a test post content"
		}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), `"id":1`)
	})

	t.Run("create comment", func(t *testing.T) {
		w := serve(http.MethodPost, "/posts/1/comments", `{"content":"Nice"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"post_id":1`)
	})

	t.Run("show post", func(t *testing.T) {
		w := serve(http.MethodGet, "/posts/1", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"content":"Nice"`)
	})

	t.Run("index", func(t *testing.T) {
		w := serve(http.MethodGet, "/posts", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"comment_count":1`)
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		w := serve(http.MethodPost, "/posts", `{"title":"T","content":"C","extra":true}`)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("oversized body", func(t *testing.T) {
		body := `{"title":"T","content":"` + strings.Repeat("x", maxBodyBytes) + `"}`
		w := serve(http.MethodPost, "/posts", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestSendServiceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "validation",
			err:            models.NewValidationError("title", "field required"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"error":"Validation failed","details":[{"field":"title","message":"field required"}]}`,
		},
		{
			name:           "not found",
			err:            fmt.Errorf("load post: %w", repositories.ErrNotFound),
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"Post not found"}`,
		},
		{
			name:           "store failure",
			err:            errors.New("connection reset by peer"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/posts/1", nil)
			w := httptest.NewRecorder()
			sendServiceError(w, req, slog.New(slog.DiscardHandler), tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"abc", 0, true},
		{"1.5", 0, true},
		{"", 0, true},
		{"2147483647", 2147483647, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": tt.raw})
			id, err := pathID(req, "id")
			if tt.wantErr {
				var verr *models.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "id", verr.Fields[0].Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}

	t.Run("out of range", func(t *testing.T) {
		for _, raw := range []string{"2147483648", "3000000000", "-3000000000"} {
			req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": raw})
			_, err := pathID(req, "id")
			assert.ErrorIs(t, err, repositories.ErrNotFound, raw)
		}
	})
}
