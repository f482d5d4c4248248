package authgate

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/authgate/internal/registry"
)

// ValidateSession parses a raw session token and checks its version
// snapshot against the registry. On success the SessionResult carries the
// token's identity claims; every failure mode collapses to
// ErrUnauthenticated so handlers cannot leak which check rejected the
// token.
func (e *Engine) ValidateSession(ctx context.Context, rawToken string) (*SessionResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	claims, err := e.tokens.Parse(rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	if !e.ValidateVersion(ctx, claims.UserID(), claims.Version) {
		return nil, fmt.Errorf("%w: session revoked", ErrUnauthenticated)
	}

	return &SessionResult{
		UserID:  claims.UserID(),
		Email:   claims.Email,
		Role:    Role(claims.Role),
		Version: claims.Version,
	}, nil
}

// IssueSession signs a token for the identity, embedding the current
// session version so a later IncrementVersion call revokes it. A user with
// no counter yet is issued version zero; issuance fails rather than mint
// an unversioned token when the registry is unreachable.
func (e *Engine) IssueSession(ctx context.Context, identity Identity) (string, error) {
	if err := e.ready(); err != nil {
		return "", err
	}
	if identity.ID == "" {
		return "", fmt.Errorf("%w: empty identity id", ErrIdentityNotFound)
	}

	version, err := e.currentVersion(ctx, identity.ID)
	if errors.Is(err, registry.ErrNotFound) {
		version = 0
	} else if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackingStoreUnavailable, err)
	}

	signed, err := e.tokens.Issue(identity.ID, identity.Email, string(identity.Role), &version)
	if err != nil {
		return "", err
	}
	e.metricInc(MetricSessionIssued)
	return signed, nil
}
