package cookies

import (
	"net/http"
	"net/url"
	"strings"

	"risiko-server/internal/shared/config"
)

// AuthCookieName carries the JWT for browsers, which cannot set headers on
// websocket upgrades.
const AuthCookieName = "auth_token"

func SetAuthCookie(w http.ResponseWriter, cfg *config.Config, token string) {
	cookie := createAuthCookie(cfg)
	cookie.Value = token
	cookie.MaxAge = int(cfg.Auth.TokenExpiration.Seconds())

	http.SetCookie(w, cookie)
}

func ClearAuthCookie(w http.ResponseWriter, cfg *config.Config) {
	cookie := createAuthCookie(cfg)
	cookie.Value = ""
	cookie.MaxAge = -1

	http.SetCookie(w, cookie)
}

// AuthToken returns the bearer token of the request, falling back to the
// auth cookie.
func AuthToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}

	if cookie, err := r.Cookie(AuthCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// production cookies are always Secure, whatever COOKIE_SECURE says
func createAuthCookie(cfg *config.Config) *http.Cookie {
	return &http.Cookie{
		Name:     AuthCookieName,
		Path:     "/",
		Domain:   extractDomain(cfg.Frontend.URL),
		HttpOnly: true,
		Secure:   cfg.Auth.CookieSecure || cfg.IsProduction(),
		SameSite: parseSameSite(cfg.Auth.CookieSameSite),
	}
}

func extractDomain(frontendURL string) string {
	parsedURL, err := url.Parse(frontendURL)
	if err != nil || parsedURL.Host == "" {
		return ""
	}

	host := strings.Split(parsedURL.Host, ":")[0]
	if host == "localhost" || host == "127.0.0.1" {
		return ""
	}

	return host
}

func parseSameSite(sameSiteStr string) http.SameSite {
	switch sameSiteStr {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
