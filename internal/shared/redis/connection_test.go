package redis

import (
	"testing"
	"time"

	"risiko-server/internal/shared/config"
)

func TestOpenDisabled(t *testing.T) {
	client, err := Open(config.RedisConfig{Enabled: false})
	if err != nil || client != nil {
		t.Fatalf("Open = %v, %v; want nil, nil", client, err)
	}
	if client.Raw() != nil {
		t.Fatal("disabled client exposes a connection")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close nil client: %v", err)
	}
}

func TestOpenRejectsBadURL(t *testing.T) {
	if _, err := Open(config.RedisConfig{Enabled: true, URL: "not a redis url"}); err == nil {
		t.Fatal("malformed URL accepted")
	}
}

func TestOpenUnreachable(t *testing.T) {
	start := time.Now()
	if _, err := Open(config.RedisConfig{Enabled: true, URL: "redis://127.0.0.1:1/0"}); err == nil {
		t.Fatal("unreachable redis accepted")
	}
	if time.Since(start) > 10*time.Second {
		t.Fatal("connect did not respect its timeout")
	}
}
