package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrUnavailable wraps infrastructure faults from the backing store.
var ErrUnavailable = errors.New("ratelimit: store unavailable")

// Result reports the outcome of one admission check.
type Result struct {
	// Allowed is false once the window's limit is exhausted.
	Allowed bool

	// Remaining is how many further calls the current window admits.
	Remaining int

	// ResetIn is the time until the current window ends. For rejected
	// calls this doubles as the Retry-After hint.
	ResetIn time.Duration
}

// Store holds the per-key window counters.
type Store interface {
	// Check admits or rejects one call against the key's current window,
	// creating the window when absent or expired. The counter moves only
	// on admitted calls.
	Check(ctx context.Context, key string, limit int, window time.Duration) (Result, error)

	// Reset discards the key's window entirely.
	Reset(ctx context.Context, key string) error

	// Sweep removes expired windows and reports how many were removed.
	// Stores whose backend expires keys natively may make this a no-op.
	Sweep(ctx context.Context) (int, error)
}

// Limiter is a thin policy wrapper over a Store that normalizes inputs and
// logs sweep activity. It holds no window state itself.
type Limiter struct {
	store Store
	log   logrus.FieldLogger
}

func NewLimiter(store Store, log logrus.FieldLogger) *Limiter {
	if log == nil {
		log = logrus.New()
	}
	return &Limiter{store: store, log: log}
}

func (l *Limiter) Check(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	if limit <= 0 || window <= 0 {
		// A preset this malformed should have been rejected by config
		// validation; deny rather than guess.
		return Result{}, nil
	}
	return l.store.Check(ctx, key, limit, window)
}

func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.store.Reset(ctx, key)
}

// Sweep runs one store sweep. Invoked by the Sweeper on its schedule but
// exported so callers can trigger it manually.
func (l *Limiter) Sweep(ctx context.Context) {
	removed, err := l.store.Sweep(ctx)
	if err != nil {
		l.log.WithError(err).Warn("rate limit sweep failed")
		return
	}
	if removed > 0 {
		l.log.WithField("removed", removed).Debug("rate limit sweep")
	}
}
