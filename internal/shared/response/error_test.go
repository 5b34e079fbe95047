package response

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"risiko-server/internal/shared/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantType   string
	}{
		{errors.NotFoundf("game %s not found", "g1"), http.StatusNotFound, "not_found"},
		{errors.Validation("ship count must exceed 5"), http.StatusBadRequest, "validation"},
		{errors.Conflictf("player already joined"), http.StatusConflict, "conflict"},
		{errors.Unauthorized("authentication required"), http.StatusUnauthorized, "unauthorized"},
		{errors.Forbidden("not your system"), http.StatusForbidden, "forbidden"},
		{errors.InsufficientResourcesf("only 3 ships"), http.StatusUnprocessableEntity, "insufficient_resources"},
		{errors.MethodNotAllowed(http.MethodPut), http.StatusMethodNotAllowed, "method_not_allowed"},
		{errors.Invariantf("negative ships"), http.StatusInternalServerError, "invariant"},
		{errors.RateLimited("rate limit exceeded"), http.StatusTooManyRequests, "rate_limited"},
		{errors.WrapExternal("snapshot store unavailable", fmt.Errorf("dial tcp")), http.StatusServiceUnavailable, "external"},
		{fmt.Errorf("plain"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.wantType, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/games", nil)

			Error(rec, req, discardLogger(), tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var body ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != tt.wantType || body.Code != tt.wantStatus {
				t.Fatalf("unexpected body %+v", body)
			}
		})
	}
}

func TestErrorWithMessageHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/games/x", nil)

	ErrorWithMessage(rec, req, discardLogger(), errors.Invariantf("system 3 has -2 ships"), "internal error")

	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message != "internal error" {
		t.Fatalf("expected generic message, got %q", body.Message)
	}
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()

	Success(rec, http.StatusCreated, map[string]int{"year": 1})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
}
