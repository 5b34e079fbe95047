package middleware

import (
	"log/slog"
	"net/http"

	"risiko-server/internal/shared/errors"
	"risiko-server/internal/shared/response"
)

// AdminMiddleware lets only admin tokens through. It expects JWTMiddleware to
// have run first.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "admin",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		claims := GetUserFromContext(r)
		if claims == nil {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		if !claims.IsAdmin() {
			logger.Warn("Non-admin user attempted to access admin endpoint",
				"username", claims.Username,
				"role", claims.Role)
			response.Error(w, r, logger, errors.Forbidden("admin access required"))
			return
		}

		// admin requests delete games, keep a record of who did it
		logger.Info("Admin request authorized", "username", claims.Username)

		next.ServeHTTP(w, r)
	})
}
