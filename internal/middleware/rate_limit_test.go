package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"risiko-server/internal/shared/config"
)

var noContent = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestRateLimiterRejectsAfterBurst(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, BurstSize: 2})
	defer rl.Stop()
	h := rl.Middleware(noContent)

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/api/games", nil)
		req.RemoteAddr = "10.0.0.1:4242"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)

		if rec.Code == http.StatusTooManyRequests {
			if rec.Header().Get("Retry-After") == "" {
				t.Fatal("missing Retry-After header")
			}
			if body := decodeError(t, rec); body.Error != "rate_limited" {
				t.Fatalf("error type = %q", body.Error)
			}
		}
	}

	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}

	// another client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/api/games", nil)
	req.RemoteAddr = "10.0.0.2:4242"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("second client got %d", rec.Code)
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{Enabled: false, RequestsPerSecond: 0.001, BurstSize: 1})
	defer rl.Stop()
	h := rl.Middleware(noContent)

	for range 5 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("disabled limiter rejected with %d", rec.Code)
		}
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		remote     string
		headers    map[string]string
		want       string
	}{
		{"remote addr", false, "192.168.1.1:12345", nil, "192.168.1.1"},
		{"remote addr without port", false, "192.168.1.1", nil, "192.168.1.1"},
		{"proxy headers ignored", false, "192.168.1.1:1", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "192.168.1.1"},
		{"forwarded for", true, "192.168.1.1:1", map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.1"}, "1.2.3.4"},
		{"real ip", true, "192.168.1.1:1", map[string]string{"X-Real-IP": "5.6.7.8"}, "5.6.7.8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req, tt.trustProxy); got != tt.want {
				t.Fatalf("getClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
