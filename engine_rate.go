package authgate

import (
	"context"
	"fmt"
	"strconv"
)

// RateKey derives the canonical limiter key for an action and client IP.
func RateKey(action, clientIP string) string {
	if clientIP == "" {
		clientIP = "unknown"
	}
	return action + ":" + clientIP
}

// CheckRate admits or rejects one call against the key's fixed window.
// Exhausted windows return ErrRateLimited with a Result whose ResetIn says
// how long to wait. A store fault rejects the call (fail-closed) and
// returns ErrBackingStoreUnavailable so callers can distinguish policy
// from infrastructure.
func (e *Engine) CheckRate(ctx context.Context, key string, preset RatePreset) (RateResult, error) {
	if err := e.ready(); err != nil {
		return RateResult{}, err
	}

	res, err := e.limiter.Check(ctx, key, preset.Limit, preset.Window)
	if err != nil {
		e.metricInc(MetricRateRejected)
		e.log.WithError(err).WithField("key", key).Warn("rate store unreachable, rejecting")
		return RateResult{Allowed: false}, fmt.Errorf("%w: %v", ErrBackingStoreUnavailable, err)
	}

	if !res.Allowed {
		e.metricInc(MetricRateRejected)
		e.emitAudit(ctx, ActionRateLimited, "rate_key", key, "", func() map[string]string {
			return map[string]string{
				"limit":    strconv.Itoa(preset.Limit),
				"reset_in": res.ResetIn.String(),
			}
		})
		return res, ErrRateLimited
	}

	e.metricInc(MetricRateAllowed)
	return res, nil
}

// CheckRateAction looks up a named preset and checks "<action>:<ip>".
// The IP falls back to the context value, then "unknown".
func (e *Engine) CheckRateAction(ctx context.Context, action, clientIP string) (RateResult, error) {
	if err := e.ready(); err != nil {
		return RateResult{}, err
	}

	preset, ok := e.cfg.RateLimit.Presets[action]
	if !ok {
		return RateResult{}, fmt.Errorf("%w: %q", ErrUnknownRatePreset, action)
	}
	if clientIP == "" {
		clientIP = clientIPFromContext(ctx)
	}
	return e.CheckRate(ctx, RateKey(action, clientIP), preset)
}

// ResetRate discards the key's current window, re-admitting the caller
// immediately. Used after a successful login to forgive prior failures.
func (e *Engine) ResetRate(ctx context.Context, key string) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := e.limiter.Reset(ctx, key); err != nil {
		return fmt.Errorf("%w: %v", ErrBackingStoreUnavailable, err)
	}
	return nil
}
