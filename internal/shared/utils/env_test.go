package utils

import (
	"testing"
	"time"
)

func TestGetEnvFallback(t *testing.T) {
	t.Setenv("RISIKO_TEST_EMPTY", "")

	if got := GetEnv("RISIKO_TEST_EMPTY", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback for empty value, got %q", got)
	}
	if got := GetEnv("RISIKO_TEST_UNSET_KEY", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback for unset key, got %q", got)
	}
}

func TestGetEnvTyped(t *testing.T) {
	t.Setenv("RISIKO_TEST_INT", "42")
	t.Setenv("RISIKO_TEST_FLOAT", "0.35")
	t.Setenv("RISIKO_TEST_BOOL", "true")
	t.Setenv("RISIKO_TEST_BAD_INT", "forty-two")

	if got := GetEnvInt("RISIKO_TEST_INT", 1); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := GetEnvInt("RISIKO_TEST_BAD_INT", 7); got != 7 {
		t.Fatalf("expected fallback 7 for malformed int, got %d", got)
	}
	if got := GetEnvFloat("RISIKO_TEST_FLOAT", 0); got != 0.35 {
		t.Fatalf("expected 0.35, got %v", got)
	}
	if got := GetEnvBool("RISIKO_TEST_BOOL", false); !got {
		t.Fatal("expected true")
	}
	if got := GetEnvSeconds("RISIKO_TEST_INT", 1); got != 42*time.Second {
		t.Fatalf("expected 42s, got %v", got)
	}
}
