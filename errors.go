package authgate

import "errors"

// Sentinel errors returned by Engine operations. Callers must branch with
// errors.Is; wrapped errors carry infrastructure detail after the sentinel.
var (
	// ErrUnauthenticated means no valid session could be established:
	// missing or malformed token, signature failure, session-version
	// mismatch, or an unreachable version registry (fail-closed).
	ErrUnauthenticated = errors.New("authgate: unauthenticated")

	// ErrForbidden means the session is valid but the identity lacks the
	// required role or approval. Never returned for token problems, so
	// handlers can redirect unauthenticated users without looping
	// authenticated ones.
	ErrForbidden = errors.New("authgate: forbidden")

	// ErrRateLimited is returned when a fixed-window limit is exhausted.
	// The accompanying RateResult carries the remaining window.
	ErrRateLimited = errors.New("authgate: rate limited")

	// ErrBackingStoreUnavailable wraps infrastructure faults from the
	// version registry or rate-limit store.
	ErrBackingStoreUnavailable = errors.New("authgate: backing store unavailable")

	// ErrVersionNotFound is returned by Version when the user has no
	// counter yet. ValidateVersion treats this state as version zero.
	ErrVersionNotFound = errors.New("authgate: session version not found")

	// ErrIdentityNotFound is returned by IdentityProvider implementations
	// when no identity exists for the given ID.
	ErrIdentityNotFound = errors.New("authgate: identity not found")

	// ErrTokenInvalid covers malformed, expired, or wrongly signed session
	// tokens.
	ErrTokenInvalid = errors.New("authgate: token invalid")

	// ErrUnknownRatePreset is returned when a named preset is not
	// configured.
	ErrUnknownRatePreset = errors.New("authgate: unknown rate preset")

	// ErrEngineNotReady is returned when an Engine method is called on a
	// nil or incompletely built engine.
	ErrEngineNotReady = errors.New("authgate: engine not ready")

	// ErrEngineClosed is returned after Close.
	ErrEngineClosed = errors.New("authgate: engine closed")
)
