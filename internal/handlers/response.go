package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/AnshRaj112/whisper-backend/internal/models"
	"github.com/AnshRaj112/whisper-backend/pkg/utils"
)

// AuthResponse is the body for auth endpoints.
type AuthResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Errors  []utils.FieldError `json:"errors,omitempty"`
	User    *models.User       `json:"user,omitempty"`
	Token   string             `json:"token,omitempty"`
}

// UsersResponse is the body for user listing/search endpoints.
type UsersResponse struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Users   []models.User `json:"users"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, AuthResponse{Success: false, Message: message})
}

// NotFound is the JSON 404 handler for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "Not found - "+r.URL.Path)
}
