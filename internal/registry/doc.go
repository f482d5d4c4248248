// Package registry owns the durable per-user session-version counter. The
// counter only ever increases; bumping it is the global kill switch for a
// user's outstanding sessions. Store implementations must make Increment a
// single atomic operation, never a read-modify-write.
package registry
