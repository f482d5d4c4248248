// Package authgate provides the access-control and session-lifecycle layer
// for form-driven web applications: global session invalidation through a
// per-user monotonic version counter, role-based authorization, fixed-window
// rate limiting, and fire-and-forget security audit logging.
//
// Construction goes through the builder:
//
//	engine, err := authgate.New().
//		WithConfig(cfg).
//		WithRedis(rdb).
//		WithIdentityProvider(provider).
//		WithAuditSink(sink).
//		Build()
//
// Engine methods are safe for concurrent use after Build.
//
// # Architecture boundaries
//
// authgate is the public surface. It exposes Engine, Builder, Config and
// value types (Identity, SessionResult, RateResult, AuditEntry). All
// coordination lives under internal/ (registry, ratelimit, audit) and is
// never exported. Token encoding lives in the token subpackage, client-side
// sign-out orchestration in signout, HTTP adapters in middleware.
//
// # What this package must NOT do
//
//   - Expose Redis clients, internal stores, or token encoding details
//     through its public API.
//   - Verify credentials or hash passwords. Identities are owned by the
//     IdentityProvider collaborator; authgate reads role and approval state
//     and manages only the session version counter.
//   - Fail a primary operation because an audit write failed.
//
// # Failure posture
//
// Session-version validation is fail-closed: if the backing store is
// unreachable the presented token is treated as invalid and the caller sees
// ErrUnauthenticated, never an infrastructure error. Audit is the opposite
// trade-off: asynchronous, best-effort, never propagated.
package authgate
