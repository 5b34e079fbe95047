package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"risiko-server/internal/auth"
	"risiko-server/internal/broadcast"
	"risiko-server/internal/game"
	"risiko-server/internal/middleware"
	"risiko-server/internal/server"
	"risiko-server/internal/shared/config"
	"risiko-server/internal/shared/database"
	"risiko-server/internal/shared/logger"
	"risiko-server/internal/shared/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := config.Init(); err != nil {
		log.Fatal("Failed to initialize configuration:", err)
	}
	logger.Init()

	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.GlobalConfig
	mainLogger := slog.With("component", "main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	redisClient, err := redis.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	settings, err := game.SettingsFromConfig(cfg.Game)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokens(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize tokens: %w", err)
	}

	hub := broadcast.NewHub(cfg.Game.BroadcastBufferSize, cfg.Frontend.Origins(), slog.Default())
	defer hub.Close()

	publisher := broadcast.NewRedisPublisher(redisClient.Raw(), cfg.Redis.Channel, slog.Default())
	repository := game.NewRepository(db, slog.Default())

	gameService := game.NewService(settings, slog.Default(),
		game.WithStore(repository),
		game.WithBroadcaster(broadcast.NewFanout(hub, publisher)),
		game.WithPersistenceTimeout(cfg.Game.PersistenceTimeout),
	)

	if cfg.Game.RestoreOnStartup {
		if _, err := gameService.Restore(ctx); err != nil {
			return fmt.Errorf("failed to restore games: %w", err)
		}
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)
	defer rateLimiter.Stop()

	cors := middleware.NewCORS(cfg.Frontend)
	routes := server.NewRoutes(cfg, db, redisClient, gameService, hub, middleware.NewAuthenticator(tokens), slog.Default())

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      cors.Middleware(rateLimiter.Middleware(routes.Setup())),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		mainLogger.Info("Risiko server starting",
			"port", cfg.Server.Port,
			"url", cfg.Server.URL,
			"environment", cfg.Server.Environment,
			"database_driver", db.Driver,
			"redis_enabled", cfg.Redis.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	mainLogger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	mainLogger.Info("Server stopped")
	return nil
}
