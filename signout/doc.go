// Package signout orchestrates client-side sign-out as a small one-shot
// state machine: Idle, InFlight, back to Idle. A coordinator instance
// serializes sign-out attempts, tolerates every step failure, and always
// terminates at the login destination — a half signed-out client is the
// one outcome the sequence is built to prevent.
package signout
