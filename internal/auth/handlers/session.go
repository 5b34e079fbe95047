package handlers

import (
	"log/slog"
	"net/http"

	"risiko-server/internal/middleware"
	"risiko-server/internal/shared/config"
	"risiko-server/internal/shared/cookies"
	"risiko-server/internal/shared/errors"
	"risiko-server/internal/shared/response"
)

// SessionHandler moves a bearer token into the auth cookie (POST) and clears
// it again (DELETE). Browsers need the cookie to open the game websocket.
type SessionHandler struct {
	cfg           *config.Config
	authenticator *middleware.Authenticator
}

func NewSessionHandler(cfg *config.Config, authenticator *middleware.Authenticator) *SessionHandler {
	return &SessionHandler{cfg: cfg, authenticator: authenticator}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.authenticator.JWTMiddleware(http.HandlerFunc(h.create)).ServeHTTP(w, r)
	case http.MethodDelete:
		h.clear(w, r)
	default:
		response.Error(w, r, slog.With("handler", "session"), errors.MethodNotAllowed(r.Method))
	}
}

func (h *SessionHandler) create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	logger := slog.With("handler", "session", "username", claims.Username)

	cookies.SetAuthCookie(w, h.cfg, cookies.AuthToken(r))
	logger.Info("Session cookie issued")

	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) clear(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "session", "remote_addr", r.RemoteAddr)

	cookies.ClearAuthCookie(w, h.cfg)
	logger.Info("Session cookie cleared")

	w.WriteHeader(http.StatusNoContent)
}
