package auth

import (
	"strings"
	"testing"
	"time"

	"risiko-server/internal/shared/config"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestTokens(t *testing.T) *Tokens {
	t.Helper()

	tokens, err := NewTokens(config.AuthConfig{JWTSecret: testSecret, TokenExpiration: time.Hour, Issuer: "risiko-server"})
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	return tokens
}

func TestNewTokensRequiresStrongSecret(t *testing.T) {
	for _, secret := range []string{"", "short"} {
		if _, err := NewTokens(config.AuthConfig{JWTSecret: secret}); err == nil {
			t.Fatalf("secret %q accepted", secret)
		}
	}
}

func TestGenerateValidate(t *testing.T) {
	tokens := newTestTokens(t)

	token, err := tokens.Generate(" alice ", "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Username != "alice" || claims.Role != RolePlayer || claims.IsAdmin() || claims.Issuer != "risiko-server" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	admin, err := tokens.Generate("root", RoleAdmin)
	if err != nil {
		t.Fatalf("generate admin: %v", err)
	}
	if claims, err := tokens.Validate(admin); err != nil || !claims.IsAdmin() {
		t.Fatalf("admin claims %+v, %v", claims, err)
	}

	if _, err := tokens.Generate("  ", RolePlayer); err == nil {
		t.Fatal("blank username accepted")
	}
}

func TestValidateRejects(t *testing.T) {
	tokens := newTestTokens(t)

	valid, err := tokens.Generate("alice", RolePlayer)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other, err := NewTokens(config.AuthConfig{JWTSecret: strings.Repeat("x", 32), Issuer: "risiko-server"})
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	foreign, _ := other.Generate("alice", RolePlayer)

	otherIssuer, _ := NewTokens(config.AuthConfig{JWTSecret: testSecret, Issuer: "someone-else"})
	wrongIssuer, _ := otherIssuer.Generate("alice", RolePlayer)

	expired := newTestTokens(t)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _ := expired.Generate("alice", RolePlayer)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Username: "alice"})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"tampered", valid + "x"},
		{"foreign secret", foreign},
		{"wrong issuer", wrongIssuer},
		{"expired", stale},
		{"unsigned", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tokens.Validate(tt.token); err == nil {
				t.Fatal("token accepted")
			}
		})
	}
}
