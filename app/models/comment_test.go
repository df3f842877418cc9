package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCommentValidation(t *testing.T) {
	tests := []struct {
		name    string
		comment *NewComment
		wantErr bool
	}{
		{
			name:    "valid comment",
			comment: &NewComment{Content: "Hello"},
			wantErr: false,
		},
		{
			name:    "content at max length",
			comment: &NewComment{Content: strings.Repeat("c", 1000)},
			wantErr: false,
		},
		{
			name:    "empty content",
			comment: &NewComment{Content: ""},
			wantErr: true,
		},
		{
			name:    "content too long",
			comment: &NewComment{Content: strings.Repeat("c", 1001)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.comment.Validate()
			if tt.wantErr {
				var verr *ValidationError
				assert.True(t, errors.As(err, &verr))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError("content", "field required")
	assert.Equal(t, "validation failed: content: field required", err.Error())
	assert.Equal(t, "validation failed", (&ValidationError{}).Error())
}
