package authgate

import (
	"context"
	"errors"
	"fmt"
)

// RequireRole authenticates the raw token and authorizes the resolved
// identity for the given role. It must run before any side effect of a
// privileged operation.
//
// The two failure sentinels are distinct on purpose: ErrUnauthenticated
// (missing/invalid token, revoked session, registry unreachable) means
// "go log in", ErrForbidden (valid session, wrong role or unapproved
// account) means "you are logged in and still not allowed". Conflating
// them sends authenticated users into login redirect loops.
func (e *Engine) RequireRole(ctx context.Context, rawToken string, role Role) (Identity, error) {
	if err := e.ready(); err != nil {
		return Identity{}, err
	}
	if e.identities == nil {
		return Identity{}, fmt.Errorf("%w: no identity provider configured", ErrEngineNotReady)
	}

	session, err := e.ValidateSession(ctx, rawToken)
	if err != nil {
		e.metricInc(MetricGuardUnauthenticated)
		return Identity{}, err
	}

	identity, err := e.lookupIdentity(ctx, session.UserID)
	if err != nil {
		e.metricInc(MetricGuardUnauthenticated)
		if errors.Is(err, ErrIdentityNotFound) {
			// Valid token for a deleted account.
			return Identity{}, fmt.Errorf("%w: identity gone", ErrUnauthenticated)
		}
		// Provider fault: privileged operations fail closed.
		e.log.WithError(err).WithField("user_id", session.UserID).
			Warn("identity lookup failed, rejecting privileged request")
		return Identity{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	if e.cfg.Policy.RequireApproved && !identity.Approved {
		e.metricInc(MetricGuardForbidden)
		e.auditAccessDenied(ctx, identity, role, "account_not_approved")
		return Identity{}, fmt.Errorf("%w: account not approved", ErrForbidden)
	}
	if identity.Role != role {
		e.metricInc(MetricGuardForbidden)
		e.auditAccessDenied(ctx, identity, role, "role_mismatch")
		return Identity{}, fmt.Errorf("%w: requires role %s", ErrForbidden, role)
	}

	e.metricInc(MetricGuardAllowed)
	return identity, nil
}

// lookupIdentity consults the expirable LRU before the provider. The TTL
// bounds how long a stale role or approval flag can win; bumping the
// session version evicts immediately.
func (e *Engine) lookupIdentity(ctx context.Context, userID string) (Identity, error) {
	if identity, ok := e.identityCache.Get(userID); ok {
		return identity, nil
	}

	identity, err := e.identities.IdentityByID(ctx, userID)
	if err != nil {
		return Identity{}, err
	}
	e.identityCache.Add(userID, identity)
	return identity, nil
}
