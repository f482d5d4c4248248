// Package ratelimit implements fixed-window admission control with exact
// boundary semantics: the call that reaches the limit is allowed, the next
// one is rejected, rejected calls never advance the counter, and the first
// call after the window boundary starts a fresh window at count one.
//
// The Store interface admits multi-instance coordination; the memory store
// scopes windows to one process, the Redis store shares them.
package ratelimit
