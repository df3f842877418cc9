package controllers

import (
	_ "embed"
	"net/http"
	"time"
)

//go:embed openapi.json
var openAPIDocument []byte

// SystemController serves the informational and liveness endpoints.
type SystemController struct {
	now func() time.Time
}

// NewSystemController creates a new SystemController
func NewSystemController() *SystemController {
	return &SystemController{now: time.Now}
}

// Health is a liveness probe. It checks no dependencies.
func (sc *SystemController) Health(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": sc.now(),
	})
}

// Root describes the API.
func (sc *SystemController) Root(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{
		"message": "Blog API",
		"docs":    "/docs",
	})
}

// Docs serves the OpenAPI description of the API.
func (sc *SystemController) Docs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(openAPIDocument)
}
