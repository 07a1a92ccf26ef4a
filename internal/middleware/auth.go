package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/AnshRaj112/whisper-backend/internal/models"
	"github.com/AnshRaj112/whisper-backend/internal/store"
	"github.com/AnshRaj112/whisper-backend/internal/token"
)

type ctxKey int

const userCtxKey ctxKey = iota

// RequireAuth gates protected routes. It extracts the bearer token, verifies
// it and resolves the user record into the request context. Missing header,
// invalid token, expired token and deleted user all get the same 401 body;
// the cause is never surfaced to the caller.
func RequireAuth(tokens *token.Manager, users store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := extractBearerToken(r.Header.Get("Authorization"))
			if tok == "" {
				unauthorized(w)
				return
			}

			userID, err := tokens.Verify(tok)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userCtxKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user attached by RequireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userCtxKey).(*models.User)
	return user, ok
}

func extractBearerToken(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"message":"Not authorized"}`))
}
