package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"risiko-server/internal/shared/database"
)

func getHealth(t *testing.T, h *HealthHandler) HealthResponse {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/server/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func TestHealthWithoutBackends(t *testing.T) {
	resp := getHealth(t, NewHealthHandler(nil, nil))
	if resp.Status != "healthy" || resp.Database != "disabled" || resp.Redis != "disabled" {
		t.Fatalf("unexpected health %+v", resp)
	}
}

func TestHealthReportsDatabase(t *testing.T) {
	db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "health.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if resp := getHealth(t, NewHealthHandler(db, nil)); resp.Database != "connected" || resp.Status != "healthy" {
		t.Fatalf("unexpected health %+v", resp)
	}

	db.Close()
	if resp := getHealth(t, NewHealthHandler(db, nil)); resp.Database != "disconnected" || resp.Status != "degraded" {
		t.Fatalf("closed database reported as %+v", resp)
	}
}

func TestHealthRejectsOtherMethods(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/server/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}
