package authgate

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/MrEthical07/authgate/internal/registry"
)

// IncrementVersion bumps the user's session version, invalidating every
// outstanding token that carries an older snapshot. The bump is a single
// atomic store operation; concurrent bumps for the same user serialize in
// the store and each produces a distinct value.
func (e *Engine) IncrementVersion(ctx context.Context, userID string) (int64, error) {
	if err := e.ready(); err != nil {
		return 0, err
	}
	if userID == "" {
		return 0, fmt.Errorf("%w: empty user id", ErrIdentityNotFound)
	}

	v, err := e.registry.Increment(ctx, userID)
	if err != nil {
		e.log.WithError(err).WithField("user_id", userID).Error("session version increment failed")
		return 0, fmt.Errorf("%w: %v", ErrBackingStoreUnavailable, err)
	}

	e.metricInc(MetricVersionIncrement)
	e.identityCache.Remove(userID)
	e.emitAudit(ctx, ActionSessionsRevoked, "user", userID, "", func() map[string]string {
		return map[string]string{"session_version": strconv.FormatInt(v, 10)}
	})
	return v, nil
}

// Version reads the user's current session version. ErrVersionNotFound
// means no counter exists yet; validation treats that state as version
// zero.
func (e *Engine) Version(ctx context.Context, userID string) (int64, error) {
	if err := e.ready(); err != nil {
		return 0, err
	}

	v, err := e.currentVersion(ctx, userID)
	if errors.Is(err, registry.ErrNotFound) {
		return 0, ErrVersionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBackingStoreUnavailable, err)
	}
	return v, nil
}

// ValidateVersion checks a presented version snapshot against the
// registry. The contract is deliberately boolean, never an error:
//
//   - presented == nil: valid. Tokens minted before versioning have no
//     snapshot and stay usable until natural expiry.
//   - registry unreachable: invalid. Failing closed here is what makes
//     the version counter a trustworthy kill switch.
//   - missing counter: compared as version zero.
func (e *Engine) ValidateVersion(ctx context.Context, userID string, presented *int64) bool {
	if presented == nil {
		return true
	}
	if err := e.ready(); err != nil {
		return false
	}

	current, err := e.currentVersion(ctx, userID)
	if errors.Is(err, registry.ErrNotFound) {
		current = 0
	} else if err != nil {
		e.metricInc(MetricValidateFailClosed)
		e.log.WithError(err).WithField("user_id", userID).
			Warn("version registry unreachable, treating session as invalid")
		return false
	}

	if current != *presented {
		e.metricInc(MetricValidateMismatch)
		return false
	}
	e.metricInc(MetricValidateOK)
	return true
}

// currentVersion collapses concurrent registry reads for one user into a
// single store round trip.
func (e *Engine) currentVersion(ctx context.Context, userID string) (int64, error) {
	v, err, _ := e.versionReads.Do(userID, func() (any, error) {
		return e.registry.Get(ctx, userID)
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}
