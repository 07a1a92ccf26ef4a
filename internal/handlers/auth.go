package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/AnshRaj112/whisper-backend/internal/middleware"
	"github.com/AnshRaj112/whisper-backend/internal/store"
	"github.com/AnshRaj112/whisper-backend/internal/token"
	"github.com/AnshRaj112/whisper-backend/pkg/utils"
)

// Signup Request
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login Request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthHandler serves signup/login/logout/me.
type AuthHandler struct {
	users  store.UserStore
	tokens *token.Manager
}

func NewAuthHandler(users store.UserStore, tokens *token.Manager) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// Signup handles user registration.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = utils.NormalizeEmail(req.Email)

	if errs := utils.ValidateSignup(req.Username, req.Email, req.Password); len(errs) > 0 {
		respondJSON(w, http.StatusBadRequest, AuthResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  errs,
		})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("Signup error: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error during signup")
		return
	}

	user, err := h.users.Create(r.Context(), req.Username, req.Email, hashedPassword)
	if err != nil {
		switch err {
		case store.ErrDuplicateEmail:
			respondError(w, http.StatusBadRequest, "Email already registered")
		case store.ErrDuplicateUsername:
			respondError(w, http.StatusBadRequest, "Username already taken")
		default:
			log.Printf("Signup error: %v", err)
			respondError(w, http.StatusInternalServerError, "Server error during signup")
		}
		return
	}

	tok, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		log.Printf("Signup error: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error during signup")
		return
	}

	user.Password = ""
	respondJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "User registered successfully",
		User:    user,
		Token:   tok,
	})
}

// Login handles user login. Unknown email and wrong password return the
// identical response so accounts cannot be enumerated.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = utils.NormalizeEmail(req.Email)

	var errs []utils.FieldError
	if err := utils.ValidateEmail(req.Email); err != nil {
		errs = append(errs, *err)
	}
	if req.Password == "" {
		errs = append(errs, utils.FieldError{Field: "password", Message: "Password is required"})
	}
	if len(errs) > 0 {
		respondJSON(w, http.StatusBadRequest, AuthResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  errs,
		})
		return
	}

	user, err := h.users.FindByEmail(r.Context(), req.Email, true)
	if err != nil {
		if err == store.ErrNotFound {
			respondError(w, http.StatusUnauthorized, "Invalid email or password")
		} else {
			log.Printf("Login error: %v", err)
			respondError(w, http.StatusInternalServerError, "Server error during login")
		}
		return
	}

	valid, err := utils.VerifyPassword(req.Password, user.Password)
	if err != nil || !valid {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	tok, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		log.Printf("Login error: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error during login")
		return
	}

	user.Password = ""
	respondJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		User:    user,
		Token:   tok,
	})
}

// Logout clears the caller's online flag. The clear is best effort: the auth
// boundary is the token, which stays valid until it expires, so logout
// responds 200 even when the flag update fails.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	if err := h.users.SetOffline(r.Context(), user.ID.Hex()); err != nil {
		log.Printf("Logout: failed to clear online flag for %s: %v", user.ID.Hex(), err)
	}

	respondJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		User:    user,
	})
}
