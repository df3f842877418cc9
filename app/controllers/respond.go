package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"blogapi/app/models"
	"blogapi/app/repositories"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string              `json:"error"`
	Details []models.FieldError `json:"details,omitempty"`
}

// Helper methods for consistent response handling

func sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, message string, status int) {
	sendJSON(w, status, errorResponse{Error: message})
}

// sendServiceError maps a service error to a response. Store errors are logged
// and reported without detail.
func sendServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		sendJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "Validation failed", Details: verr.Fields})
	case errors.Is(err, repositories.ErrNotFound):
		sendError(w, "Post not found", http.StatusNotFound)
	default:
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		sendError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// pathID parses an integer route variable. Ids are INTEGER columns, so a value
// outside the 32-bit range cannot name a row and is reported as not found.
func pathID(r *http.Request, name string) (int, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, repositories.ErrNotFound
		}
		return 0, models.NewValidationError(name, "must be an integer")
	}
	return int(id), nil
}

// decodeJSON reads a single JSON object from the request body. Any decoding
// failure is a validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return models.NewValidationError("body", "field required")
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return models.NewValidationError(typeErr.Field, fmt.Sprintf("must be a %s", typeErr.Type))
		}
		return models.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	return nil
}
