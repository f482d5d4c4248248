package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/MrEthical07/authgate"
	"github.com/MrEthical07/authgate/token"
)

type sessionContextKey struct{}
type identityContextKey struct{}

// Options tunes how the guards respond to failures.
type Options struct {
	// CookieName of the session cookie. Default token.DefaultCookieName.
	CookieName string

	// LoginURL is where unauthenticated browsers are redirected, with the
	// original path in return_to. Default "/login".
	LoginURL string

	// JSONResponses answers 401/403 with JSON bodies instead of
	// redirecting. Use for API routes.
	JSONResponses bool
}

func (o Options) withDefaults() Options {
	if o.CookieName == "" {
		o.CookieName = token.DefaultCookieName
	}
	if o.LoginURL == "" {
		o.LoginURL = "/login"
	}
	return o
}

// Guard requires a valid session. The SessionResult is attached to the
// request context for downstream handlers; the client IP is attached for
// audit attribution.
func Guard(engine *authgate.Engine, opts Options) func(http.Handler) http.Handler {
	opts = opts.withDefaults()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := authgate.WithClientIP(r.Context(), authgate.ClientIPFromRequest(r))

			raw, ok := token.FromRequest(r, opts.CookieName)
			if !ok {
				unauthenticated(w, r, opts)
				return
			}
			session, err := engine.ValidateSession(ctx, raw)
			if err != nil {
				unauthenticated(w, r, opts)
				return
			}

			ctx = context.WithValue(ctx, sessionContextKey{}, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole requires a valid session whose identity holds the role.
// Unauthenticated and Forbidden map to 401-or-redirect and 403; the
// bodies differ so clients can tell "log in" from "not allowed".
func RequireRole(engine *authgate.Engine, role authgate.Role, opts Options) func(http.Handler) http.Handler {
	opts = opts.withDefaults()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := authgate.WithClientIP(r.Context(), authgate.ClientIPFromRequest(r))

			raw, _ := token.FromRequest(r, opts.CookieName)
			identity, err := engine.RequireRole(ctx, raw, role)
			if err != nil {
				if errors.Is(err, authgate.ErrForbidden) {
					writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
					return
				}
				unauthenticated(w, r, opts)
				return
			}

			ctx = authgate.WithActor(ctx, identity)
			ctx = context.WithValue(ctx, identityContextKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the SessionResult attached by Guard.
func SessionFromContext(ctx context.Context) (*authgate.SessionResult, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(*authgate.SessionResult)
	return s, ok
}

// IdentityFromContext returns the Identity attached by RequireRole.
func IdentityFromContext(ctx context.Context) (authgate.Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(authgate.Identity)
	return id, ok
}

func unauthenticated(w http.ResponseWriter, r *http.Request, opts Options) {
	if opts.JSONResponses {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	dest := opts.LoginURL + "?return_to=" + url.QueryEscape(r.URL.RequestURI())
	http.Redirect(w, r, dest, http.StatusFound)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
