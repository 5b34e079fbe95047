package handlers

import (
	"log/slog"
	"net/http"

	"risiko-server/internal/broadcast"
	"risiko-server/internal/game"
	"risiko-server/internal/shared/errors"
	"risiko-server/internal/shared/response"
)

type GameStatusResponse struct {
	Game          string `json:"game"`
	RunningGames  int    `json:"running_games"`
	Participants  int    `json:"participants"`
	OnlinePlayers int    `json:"online_players"`
}

type GameStatusHandler struct {
	service *game.Service
	hub     *broadcast.Hub
}

func NewGameStatusHandler(service *game.Service, hub *broadcast.Hub) *GameStatusHandler {
	return &GameStatusHandler{service: service, hub: hub}
}

func (h *GameStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "game_status")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	resp := GameStatusResponse{Game: "Risiko"}
	for _, summary := range h.service.ListGames() {
		resp.RunningGames++
		resp.Participants += summary.PlayerCount
		resp.OnlinePlayers += h.hub.Subscribers(summary.ID)
	}

	response.Success(w, http.StatusOK, resp)
}
