package server

import (
	"log/slog"
	"net/http"

	authHandlers "risiko-server/internal/auth/handlers"
	"risiko-server/internal/broadcast"
	"risiko-server/internal/game"
	gameHandlers "risiko-server/internal/game/handlers"
	"risiko-server/internal/middleware"
	serverHandlers "risiko-server/internal/server/handlers"
	"risiko-server/internal/shared/config"
	"risiko-server/internal/shared/database"
	"risiko-server/internal/shared/redis"
)

type Routes struct {
	cfg           *config.Config
	db            *database.DB
	redis         *redis.Client
	gameService   *game.Service
	hub           *broadcast.Hub
	authenticator *middleware.Authenticator
	logger        *slog.Logger
}

func NewRoutes(cfg *config.Config, db *database.DB, redisClient *redis.Client, gameService *game.Service, hub *broadcast.Hub, authenticator *middleware.Authenticator, logger *slog.Logger) *Routes {
	return &Routes{
		cfg:           cfg,
		db:            db,
		redis:         redisClient,
		gameService:   gameService,
		hub:           hub,
		authenticator: authenticator,
		logger:        logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := r.logger.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()
	protect := r.authenticator.JWTMiddleware

	healthHandler := serverHandlers.NewHealthHandler(r.db, r.redis)
	gameStatusHandler := gameHandlers.NewGameStatusHandler(r.gameService, r.hub)
	meHandler := authHandlers.NewMeHandler()
	sessionHandler := authHandlers.NewSessionHandler(r.cfg, r.authenticator)

	gameHandler := gameHandlers.NewGameHandler(r.gameService, r.hub)

	// Public endpoints
	mux.Handle("/api/server/health", healthHandler)
	mux.Handle("/api/server/status", gameStatusHandler)

	// Session endpoints
	mux.Handle("/api/auth/me", protect(meHandler))
	mux.Handle("/api/auth/session", sessionHandler)

	// Listing is public, creating needs a player
	createGame := protect(http.HandlerFunc(gameHandler.CreateGame))
	mux.HandleFunc("/api/games", func(w http.ResponseWriter, req *http.Request) {
		if req.Method == http.MethodGet {
			gameHandler.GetGames(w, req)
			return
		}
		createGame.ServeHTTP(w, req)
	})

	// Protected endpoints (authenticated players)
	mux.Handle("/api/games/{id}", protect(http.HandlerFunc(gameHandler.GetGame)))
	mux.Handle("/api/games/{id}/join", protect(http.HandlerFunc(gameHandler.JoinGame)))
	mux.Handle("/api/games/{id}/fleets", protect(http.HandlerFunc(gameHandler.SendFleet)))
	mux.Handle("/api/games/{id}/ready", protect(http.HandlerFunc(gameHandler.Ready)))
	mux.Handle("/api/games/{id}/ws", protect(http.HandlerFunc(gameHandler.Stream)))

	// Admin-only endpoints (authenticated + admin role)
	mux.Handle("/api/admin/games", r.authenticator.RequireAdmin(http.HandlerFunc(gameHandler.DeleteAllGames)))
	mux.Handle("/api/admin/games/{id}", r.authenticator.RequireAdmin(http.HandlerFunc(gameHandler.DeleteGame)))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/server/status", "GET /api/games"},
		"session_endpoints", []string{"/api/auth/me", "/api/auth/session"},
		"protected_endpoints", []string{"POST /api/games", "/api/games/{id}", "/api/games/{id}/join", "/api/games/{id}/fleets", "/api/games/{id}/ready", "/api/games/{id}/ws"},
		"admin_endpoints", []string{"/api/admin/games", "/api/admin/games/{id}"},
	)

	return mux
}
