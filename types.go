package authgate

import (
	"context"

	internalaudit "github.com/MrEthical07/authgate/internal/audit"
	"github.com/MrEthical07/authgate/internal/ratelimit"
)

// Role is the coarse authorization attribute carried on an Identity.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Identity is the projection of a user record that authgate needs. The
// record itself is owned by the IdentityProvider; authgate never writes any
// field of it. SessionVersion is the provider's snapshot of the version
// counter and is informational — the registry is the authority during
// validation.
type Identity struct {
	ID             string
	Email          string
	Role           Role
	Approved       bool
	SessionVersion int64
}

// IdentityProvider resolves identities by ID. Implementations return
// ErrIdentityNotFound when no identity exists; any other error is treated
// as an infrastructure fault and fails closed.
type IdentityProvider interface {
	IdentityByID(ctx context.Context, id string) (Identity, error)
}

// SessionResult is the outcome of a successful ValidateSession call.
// Version is nil for tokens issued before versioning was introduced.
type SessionResult struct {
	UserID  string
	Email   string
	Role    Role
	Version *int64
}

// RateResult reports the outcome of a fixed-window admission check.
type RateResult = ratelimit.Result

// AuditEntry is a single append-only security audit record.
type AuditEntry = internalaudit.Entry

// AuditAction is the closed set of auditable actions.
type AuditAction = internalaudit.Action

// AuditSink receives dispatched audit entries. Emit must not block for
// long; slow sinks cause entries to be dropped, never primary-path stalls.
type AuditSink = internalaudit.Sink
