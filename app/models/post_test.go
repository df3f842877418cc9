package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostValidation(t *testing.T) {
	tests := []struct {
		name      string
		post      *NewPost
		wantErr   bool
		wantField string
	}{
		{
			name:    "valid post",
			post:    &NewPost{Title: "Test Post", Content: "This is a test post."},
			wantErr: false,
		},
		{
			name:    "single character title",
			post:    &NewPost{Title: "a", Content: "b"},
			wantErr: false,
		},
		{
			name:    "title at max length",
			post:    &NewPost{Title: strings.Repeat("t", 200), Content: "body"},
			wantErr: false,
		},
		{
			name:    "multibyte title counts characters",
			post:    &NewPost{Title: strings.Repeat("é", 200), Content: "body"},
			wantErr: false,
		},
		{
			name:      "empty title",
			post:      &NewPost{Title: "", Content: "body"},
			wantErr:   true,
			wantField: "title",
		},
		{
			name:      "title too long",
			post:      &NewPost{Title: strings.Repeat("t", 201), Content: "body"},
			wantErr:   true,
			wantField: "title",
		},
		{
			name:      "empty content",
			post:      &NewPost{Title: "Valid Title", Content: ""},
			wantErr:   true,
			wantField: "content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			require.NotEmpty(t, verr.Fields)
			assert.Equal(t, tt.wantField, verr.Fields[0].Field)
		})
	}
}

func TestPostAddComment(t *testing.T) {
	post := &Post{ID: 1, Title: "Test Post", Content: "Test Content"}

	t.Run("add comment", func(t *testing.T) {
		err := post.AddComment(&Comment{ID: 1, PostID: 1, Content: "Hello"})
		assert.NoError(t, err)
		assert.Len(t, post.Comments, 1)
	})

	t.Run("add nil comment", func(t *testing.T) {
		assert.Error(t, post.AddComment(nil))
	})

	t.Run("comment for another post", func(t *testing.T) {
		assert.Error(t, post.AddComment(&Comment{ID: 2, PostID: 2, Content: "Hello"}))
		assert.Len(t, post.Comments, 1)
	})
}

func TestPostNormalizeEncodesEmptyComments(t *testing.T) {
	post := &Post{ID: 1, Title: "Test Post", Content: "Test Content"}
	post.Normalize()

	data, err := json.Marshal(post)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"comments":[]`)
}
