package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/whisper-backend/internal/handlers"
)

// SetupRoutes registers the API surface. guard is the auth middleware gating
// every protected route.
func SetupRoutes(r chi.Router, auth *handlers.AuthHandler, users *handlers.UserHandler, guard func(http.Handler) http.Handler) {
	r.Route("/api", func(api chi.Router) {
		// Public auth routes
		api.Post("/auth/signup", auth.Signup)
		api.Post("/auth/login", auth.Login)

		// Protected routes
		api.Group(func(protected chi.Router) {
			protected.Use(guard)

			protected.Post("/auth/logout", auth.Logout)
			protected.Get("/auth/me", auth.Me)

			protected.Get("/users", users.List)
			protected.Get("/users/search", users.Search)
			protected.Get("/users/{id}", users.GetByID)
			protected.Put("/users/profile", users.UpdateProfile)

			protected.Post("/upload", handlers.UploadFile)
		})
	})

	r.NotFound(handlers.NotFound)
}
