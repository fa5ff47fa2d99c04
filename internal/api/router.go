package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/BayoGabriel/igaming/internal/api/handler"
	"github.com/BayoGabriel/igaming/internal/api/middleware"
	"github.com/BayoGabriel/igaming/internal/services/auth"
	"github.com/BayoGabriel/igaming/internal/services/game"
	"github.com/BayoGabriel/igaming/internal/services/leaderboard"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	AuthService        *auth.Service
	GameEngine         *game.Engine
	LeaderboardService *leaderboard.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.GameEngine)
	gameHandler := handler.NewGameHandler(cfg.GameEngine)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Auth routes (no auth required for registering/logging in)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	// Protected auth routes
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(authMiddleware)
	authProtected.HandleFunc("/me", authHandler.Me).Methods(http.MethodGet)

	// Game routes (all require auth)
	gameRoutes := api.PathPrefix("/game").Subrouter()
	gameRoutes.Use(authMiddleware)
	gameRoutes.HandleFunc("/current", gameHandler.Current).Methods(http.MethodGet)
	gameRoutes.HandleFunc("/join", gameHandler.Join).Methods(http.MethodPost)
	gameRoutes.HandleFunc("/leave", gameHandler.Leave).Methods(http.MethodPost)
	gameRoutes.HandleFunc("/select-number", gameHandler.SelectNumber).Methods(http.MethodPost)

	// Read-model routes (no auth; the boards are public)
	api.HandleFunc("/sessions", leaderboardHandler.Sessions).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", leaderboardHandler.Top).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
