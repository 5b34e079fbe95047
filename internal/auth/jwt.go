package auth

import (
	"fmt"
	"strings"
	"time"

	"risiko-server/internal/shared/config"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RolePlayer = "player"
	RoleAdmin  = "admin"
)

// Claims identify the acting player. Username is the name used inside games.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Tokens signs and validates HS256 tokens with the configured secret
type Tokens struct {
	secret     []byte
	issuer     string
	expiration time.Duration
	now        func() time.Time
}

func NewTokens(cfg config.AuthConfig) (*Tokens, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT secret is required but not set")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT secret must be at least 32 characters long for security")
	}

	expiration := cfg.TokenExpiration
	if expiration <= 0 {
		expiration = 3 * time.Hour
	}

	return &Tokens{
		secret:     []byte(cfg.JWTSecret),
		issuer:     cfg.Issuer,
		expiration: expiration,
		now:        time.Now,
	}, nil
}

func (t *Tokens) Generate(username, role string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("cannot generate JWT: username is required")
	}
	if role == "" {
		role = RolePlayer
	}

	now := t.now()
	claims := Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *Tokens) Validate(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if strings.TrimSpace(claims.Username) == "" {
		return nil, fmt.Errorf("token carries no username")
	}

	return claims, nil
}
