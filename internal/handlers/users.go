package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/whisper-backend/internal/middleware"
	"github.com/AnshRaj112/whisper-backend/internal/store"
	"github.com/AnshRaj112/whisper-backend/pkg/utils"
)

// UpdateProfileRequest is a partial profile update. Pointer fields
// distinguish "not sent" (nil, leave unchanged) from "sent empty" (clear,
// honored for bio and phone).
type UpdateProfileRequest struct {
	Username   *string `json:"username,omitempty"`
	Email      *string `json:"email,omitempty"`
	Bio        *string `json:"bio,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	ProfilePic *string `json:"profilePic,omitempty"`
	Password   *string `json:"password,omitempty"`
}

// UserHandler serves the user directory endpoints. All of them sit behind
// the auth middleware.
type UserHandler struct {
	users store.UserStore
}

func NewUserHandler(users store.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

// List returns all users except the caller, ordered by username.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	users, err := h.users.List(r.Context(), caller.ID.Hex())
	if err != nil {
		log.Printf("Get all users error: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, UsersResponse{
		Success: true,
		Count:   len(users),
		Users:   users,
	})
}

// Search matches the query against usernames and emails, excluding the
// caller, capped at 20 results.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		respondError(w, http.StatusBadRequest, "Search term is required")
		return
	}

	users, err := h.users.Search(r.Context(), q, caller.ID.Hex())
	if err != nil {
		log.Printf("Search users error: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, UsersResponse{
		Success: true,
		Count:   len(users),
		Users:   users,
	})
}

// GetByID returns a single user's profile.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "User not found")
		} else {
			log.Printf("Get user by ID error: %v", err)
			respondError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		User:    user,
	})
}

// UpdateProfile updates the caller's own record. Store-level failures,
// including unique-index conflicts on username/email, surface as 500.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	upd := store.UserUpdate{
		Username:   req.Username,
		Bio:        req.Bio,
		Phone:      req.Phone,
		ProfilePic: req.ProfilePic,
	}
	if req.Email != nil {
		normalized := utils.NormalizeEmail(*req.Email)
		upd.Email = &normalized
	}
	if req.Password != nil && *req.Password != "" {
		hashed, err := utils.HashPassword(*req.Password)
		if err != nil {
			log.Printf("Update profile error: %v", err)
			respondError(w, http.StatusInternalServerError, "Server error")
			return
		}
		upd.Password = &hashed
	}

	user, err := h.users.Update(r.Context(), caller.ID.Hex(), upd)
	if err != nil {
		log.Printf("Update profile error: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Profile updated successfully",
		User:    user,
	})
}
