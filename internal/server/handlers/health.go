package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"risiko-server/internal/shared/database"
	"risiko-server/internal/shared/errors"
	"risiko-server/internal/shared/redis"
	"risiko-server/internal/shared/response"
)

const pingTimeout = 2 * time.Second

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Redis     string `json:"redis"`
}

// HealthHandler reports the reachability of the snapshot store and redis.
// Either may be nil when the server runs without it.
type HealthHandler struct {
	db    *database.DB
	redis *redis.Client
}

func NewHealthHandler(db *database.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  "disabled",
		Redis:     "disabled",
	}

	if h.db != nil {
		resp.Database = "connected"
		if err := h.db.PingContext(ctx); err != nil {
			logger.Warn("Database ping failed", "error", err)
			resp.Database = "disconnected"
			resp.Status = "degraded"
		}
	}

	if raw := h.redis.Raw(); raw != nil {
		resp.Redis = "connected"
		if err := raw.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis ping failed", "error", err)
			resp.Redis = "disconnected"
			resp.Status = "degraded"
		}
	}

	response.Success(w, http.StatusOK, resp)
}
