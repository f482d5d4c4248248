package token

import (
	"net/http"
	"strings"
)

// DefaultCookieName is used when no cookie name is configured.
const DefaultCookieName = "ag_session"

// SetSessionCookie writes the session cookie: http-only, SameSite=Lax,
// path=/, and session-scoped (no Max-Age, so it dies with the browser
// session while the token's own expiry bounds replayed copies).
func SetSessionCookie(w http.ResponseWriter, name, value string, secure bool) {
	if name == "" {
		name = DefaultCookieName
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie. Attributes must match the
// ones used on set or browsers keep the original.
func ClearSessionCookie(w http.ResponseWriter, name string) {
	if name == "" {
		name = DefaultCookieName
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// FromRequest extracts the raw session token, preferring the cookie and
// falling back to a bearer Authorization header.
func FromRequest(r *http.Request, cookieName string) (string, bool) {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value, true
	}

	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):]), true
	}
	return "", false
}
