package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/AnshRaj112/whisper-backend/internal/config"
	"github.com/AnshRaj112/whisper-backend/internal/database"
	"github.com/AnshRaj112/whisper-backend/internal/handlers"
	"github.com/AnshRaj112/whisper-backend/internal/middleware"
	"github.com/AnshRaj112/whisper-backend/internal/routes"
	"github.com/AnshRaj112/whisper-backend/internal/store"
	"github.com/AnshRaj112/whisper-backend/internal/token"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Load configuration
	cfg := config.Load()

	// The signing secret has no default; running without one would issue
	// unverifiable tokens.
	tokens, err := token.New(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.Fatal("JWT_SECRET must be set: ", err)
	}

	// Connect to MongoDB
	log.Printf("Connecting to MongoDB...")
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	// Connect to Redis (rate limiting only; the API runs without it)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Printf("⚠️  WARNING: Redis unavailable, rate limiting disabled: %v", err)
	}
	defer database.DisconnectRedis()

	// Initialize Cloudinary service
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		if err := handlers.InitCloudinaryService(cfg); err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("Profile picture uploads will not be available")
		} else {
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. Profile picture uploads will not be available")
	}

	// Unique indexes on username and email are the authoritative duplicate
	// guard for concurrent signups.
	users := store.NewMongoStore(database.DB)
	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := users.EnsureIndexes(indexCtx); err != nil {
		cancel()
		log.Fatal("Failed to ensure user indexes:", err)
	}
	cancel()
	log.Println("✅ MongoDB user indexes ensured")

	// Setup router
	r := chi.NewRouter()

	// Custom CORS: set headers and respond to OPTIONS with 200 so preflight never gets 403
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production: SecurityHeaders → GlobalRateLimit → AuthRateLimit
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP + login rate limiting)")
	} else {
		r.Use(middleware.RateLimitMiddleware)
	}

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Setup routes
	auth := handlers.NewAuthHandler(users, tokens)
	userHandler := handlers.NewUserHandler(users)
	guard := middleware.RequireAuth(tokens, users)
	routes.SetupRoutes(r, auth, userHandler, guard)

	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  POST /api/auth/signup")
	log.Println("  POST /api/auth/login")
	log.Println("  POST /api/auth/logout")
	log.Println("  GET  /api/auth/me")
	log.Println("  GET  /api/users")
	log.Println("  GET  /api/users/search")
	log.Println("  GET  /api/users/{id}")
	log.Println("  PUT  /api/users/profile")
	log.Println("  POST /api/upload")

	log.Printf("🚀 Whisper backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
