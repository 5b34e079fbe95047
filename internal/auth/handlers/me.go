package handlers

import (
	"log/slog"
	"net/http"

	"risiko-server/internal/middleware"
	"risiko-server/internal/shared/errors"
	"risiko-server/internal/shared/response"
)

type MeResponse struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "me")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	resp := MeResponse{
		Username: claims.Username,
		Role:     claims.Role,
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.UTC().Format(http.TimeFormat)
	}

	response.Success(w, http.StatusOK, resp)
}
