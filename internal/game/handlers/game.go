package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"risiko-server/internal/auth"
	"risiko-server/internal/broadcast"
	"risiko-server/internal/game"
	"risiko-server/internal/middleware"
	"risiko-server/internal/shared/errors"
	"risiko-server/internal/shared/response"
)

const maxBodyBytes = 1 << 20 // 1 MB

type GameHandler struct {
	service *game.Service
	hub     *broadcast.Hub
}

func NewGameHandler(service *game.Service, hub *broadcast.Hub) *GameHandler {
	return &GameHandler{service: service, hub: hub}
}

// CreateGameRequest is the body of POST /api/games. The creator is always the
// caller; an empty player list means a game for the caller alone.
type CreateGameRequest struct {
	Planets        int      `json:"planets"`
	Galaxies       int      `json:"galaxies"`
	Players        []string `json:"players"`
	Colors         []string `json:"colors,omitempty"`
	PirateFraction *float64 `json:"pirate_fraction,omitempty"`
	Seed           int64    `json:"seed,omitempty"`
}

type FleetResponse struct {
	Fleet *game.Fleet `json:"fleet"`
	Game  *game.Game  `json:"game"`
}

type ReadyResponse struct {
	Game   *game.Game       `json:"game"`
	Report *game.TurnReport `json:"report,omitempty"`
}

type DeleteAllResponse struct {
	Deleted int `json:"deleted"`
}

func (h *GameHandler) GetGames(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_games")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	response.Success(w, http.StatusOK, h.service.ListGames())
}

func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "create_game")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	var req CreateGameRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	players := req.Players
	if len(players) == 0 {
		players = []string{claims.Username}
	}

	created, err := h.service.CreateGame(ctx, game.CreateParams{
		Planets:        req.Planets,
		Galaxies:       req.Galaxies,
		Players:        players,
		Creator:        claims.Username,
		Colors:         req.Colors,
		PirateFraction: req.PirateFraction,
		Seed:           req.Seed,
	})
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, created)
}

func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_game", "game_id", r.PathValue("id"))

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	gameID, err := pathGameID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	g, err := h.service.GetState(gameID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, g)
}

func (h *GameHandler) JoinGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "join_game", "game_id", r.PathValue("id"))

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	gameID, claims, err := gameAndActor(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	g, err := h.service.JoinGame(ctx, gameID, claims.Username)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, g)
}

func (h *GameHandler) SendFleet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "send_fleet", "game_id", r.PathValue("id"))

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	gameID, claims, err := gameAndActor(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var cmd game.SendFleetCommand
	if err := decodeBody(w, r, &cmd); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	g, fleet, err := h.service.SendFleet(ctx, gameID, claims.Username, cmd)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, FleetResponse{Fleet: fleet, Game: g})
}

// Ready declares (POST) or withdraws (DELETE) the caller's readiness
func (h *GameHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "ready", "game_id", r.PathValue("id"))

	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	gameID, claims, err := gameAndActor(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if r.Method == http.MethodDelete {
		g, err := h.service.CancelReady(ctx, gameID, claims.Username)
		if err != nil {
			response.Error(w, r, logger, err)
			return
		}
		response.Success(w, http.StatusOK, ReadyResponse{Game: g})
		return
	}

	g, report, err := h.service.DeclareReady(ctx, gameID, claims.Username)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, ReadyResponse{Game: g, Report: report})
}

// Stream upgrades to a websocket that receives the current snapshot followed
// by every event of the game.
func (h *GameHandler) Stream(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "stream", "game_id", r.PathValue("id"))

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	gameID, claims, err := gameAndActor(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if _, err := h.service.GetState(gameID); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	current := func() (*game.Game, error) { return h.service.GetState(gameID) }

	// the client has already been answered when Serve fails
	if err := h.hub.Serve(w, r, claims.Username, gameID, current); err != nil {
		logger.Warn("Websocket upgrade failed", "username", claims.Username, "error", err)
	}
}

func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "delete_game", "game_id", r.PathValue("id"))

	if r.Method != http.MethodDelete {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	gameID, err := pathGameID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.DeleteGame(ctx, gameID); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GameHandler) DeleteAllGames(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "delete_all_games")

	if r.Method != http.MethodDelete {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	deleted, err := h.service.DeleteAllGames(ctx)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, DeleteAllResponse{Deleted: deleted})
}

func pathGameID(r *http.Request) (string, error) {
	gameID := r.PathValue("id")
	if gameID == "" {
		return "", errors.Validation("game ID is required")
	}
	return gameID, nil
}

func gameAndActor(r *http.Request) (string, *auth.Claims, error) {
	gameID, err := pathGameID(r)
	if err != nil {
		return "", nil, err
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		return "", nil, errors.Unauthorized("no user claims found in context")
	}
	return gameID, claims, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return errors.WrapValidation("invalid JSON in request body", err)
	}
	return nil
}
