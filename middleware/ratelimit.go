package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/MrEthical07/authgate"
)

// RateLimit applies the named preset keyed by "<action>:<client-ip>".
// Rejections answer 429 with a deliberately generic message and a
// Retry-After header; an unknown preset is a deployment bug and fails
// every request loudly with 500.
func RateLimit(engine *authgate.Engine, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := authgate.ClientIPFromRequest(r)
			ctx := authgate.WithClientIP(r.Context(), ip)

			res, err := engine.CheckRateAction(ctx, action, ip)
			if err != nil && errors.Is(err, authgate.ErrUnknownRatePreset) {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "server error"})
				return
			}
			if !res.Allowed {
				retryAfter := int(res.ResetIn / time.Second)
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				writeJSON(w, http.StatusTooManyRequests, map[string]string{
					"error": "too many attempts, try again later",
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
