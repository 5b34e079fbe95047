package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"risiko-server/internal/auth"
	"risiko-server/internal/shared/cookies"
	"risiko-server/internal/shared/errors"
	"risiko-server/internal/shared/response"
)

type contextKey string

const UserContextKey contextKey = "user"

// Authenticator resolves the acting player from a bearer token or the auth
// cookie.
type Authenticator struct {
	tokens *auth.Tokens
}

func NewAuthenticator(tokens *auth.Tokens) *Authenticator {
	return &Authenticator{tokens: tokens}
}

func (a *Authenticator) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "jwt",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		logger.Debug("Processing JWT authentication")

		token := cookies.AuthToken(r)
		if token == "" {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		claims, err := a.tokens.Validate(token)
		if err != nil {
			logger.Debug("Token rejected", "error", err)
			response.Error(w, r, logger, errors.Unauthorized("invalid token"))
			return
		}

		logger.Debug("JWT authentication successful",
			"username", claims.Username,
			"role", claims.Role)

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims)))
	})
}

func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return a.JWTMiddleware(AdminMiddleware(next))
}

func WithUser(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}

// Helper to get user from context
func GetUserFromContext(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(UserContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
