package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"risiko-server/internal/auth"
	"risiko-server/internal/middleware"
	"risiko-server/internal/shared/config"
	"risiko-server/internal/shared/cookies"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "0123456789abcdef0123456789abcdef",
			TokenExpiration: time.Hour,
			Issuer:          "risiko-server",
			CookieSameSite:  "lax",
		},
		Frontend: config.FrontendConfig{URL: "http://localhost:3000"},
	}
}

func newTokens(t *testing.T, cfg *config.Config) *auth.Tokens {
	t.Helper()

	tokens, err := auth.NewTokens(cfg.Auth)
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	return tokens
}

func TestMeHandler(t *testing.T) {
	cfg := testConfig()
	tokens := newTokens(t, cfg)
	token, _ := tokens.Generate("alice", auth.RolePlayer)

	handler := middleware.NewAuthenticator(tokens).JWTMiddleware(NewMeHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body MeResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Username != "alice" || body.Role != auth.RolePlayer || body.ExpiresAt == "" {
		t.Fatalf("unexpected body %+v", body)
	}

	rec = httptest.NewRecorder()
	NewMeHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	NewMeHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/me", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST status = %d", rec.Code)
	}
}

func TestSessionHandler(t *testing.T) {
	cfg := testConfig()
	tokens := newTokens(t, cfg)
	token, _ := tokens.Generate("alice", auth.RolePlayer)
	handler := NewSessionHandler(cfg, middleware.NewAuthenticator(tokens))

	t.Run("create sets the cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/session", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d", rec.Code)
		}
		set := rec.Result().Cookies()
		if len(set) != 1 || set[0].Name != cookies.AuthCookieName || set[0].Value != token {
			t.Fatalf("cookies = %+v", set)
		}
	})

	t.Run("create requires a token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/session", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Fatal("cookie set without a token")
		}
	})

	t.Run("delete clears the cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/auth/session", nil))

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d", rec.Code)
		}
		set := rec.Result().Cookies()
		if len(set) != 1 || set[0].Value != "" || set[0].MaxAge >= 0 {
			t.Fatalf("cookies = %+v", set)
		}
	})

	t.Run("other methods", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}
