package authgate

import (
	"context"
	"net/http"
	"strings"
)

type clientIPContextKey struct{}
type actorContextKey struct{}

// WithClientIP attaches the caller's IP for audit and rate-limit key
// derivation.
func WithClientIP(ctx context.Context, ip string) context.Context {
	if ip == "" {
		return ctx
	}
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}

// WithActor attaches the acting identity so audit entries emitted further
// down the call chain carry actor attribution without plumbing it through
// every signature.
func WithActor(ctx context.Context, actor Identity) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func actorFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	actor, ok := ctx.Value(actorContextKey{}).(Identity)
	return actor, ok
}

// ClientIPFromRequest derives the client IP from proxy headers, checked in
// trust order: x-real-ip, then the first x-forwarded-for hop, then
// cf-connecting-ip. Returns "unknown" when none is present, so derived
// rate-limit keys still bucket headerless traffic together instead of
// panicking on an empty segment.
func ClientIPFromRequest(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("X-Real-Ip")); ip != "" {
		return ip
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("Cf-Connecting-Ip")); ip != "" {
		return ip
	}
	return "unknown"
}
