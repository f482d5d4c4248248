package registry

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means the user has no counter yet. Callers treat this
	// state as version zero.
	ErrNotFound = errors.New("registry: version not found")

	// ErrUnavailable wraps infrastructure faults from the backing store.
	ErrUnavailable = errors.New("registry: store unavailable")
)

// Store is the durable home of the version counter.
type Store interface {
	// Increment atomically bumps the user's counter and returns the new
	// value. A missing counter starts from zero, so the first increment
	// returns 1.
	Increment(ctx context.Context, userID string) (int64, error)

	// Get returns the current counter value, or ErrNotFound.
	Get(ctx context.Context, userID string) (int64, error)
}
