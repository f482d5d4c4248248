package middleware

import (
	"net/http"

	"github.com/MrEthical07/authgate"
	"github.com/MrEthical07/authgate/token"
)

// SignOutHandler is the server half of sign-out: POST-only, clears the
// session cookie, answers 200 JSON. It succeeds even without a valid
// session, since the client calling it is already tearing down. When an
// engine is supplied, a logout audit entry is recorded for attributable
// calls.
func SignOutHandler(engine *authgate.Engine, cookieName string) http.Handler {
	if cookieName == "" {
		cookieName = token.DefaultCookieName
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}

		ctx := authgate.WithClientIP(r.Context(), authgate.ClientIPFromRequest(r))
		if engine != nil {
			if raw, ok := token.FromRequest(r, cookieName); ok {
				if session, err := engine.ValidateSession(ctx, raw); err == nil {
					engine.Audit(ctx, authgate.AuditEntry{
						ActorID:    session.UserID,
						ActorEmail: session.Email,
						Action:     authgate.ActionLogout,
					})
				}
			}
		}

		token.ClearSessionCookie(w, cookieName)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})
}
