// Package middleware adapts the authgate engine to net/http. Handlers
// stay transport-thin: they translate engine sentinels into status codes
// (401 vs 403 vs 429), derive client IPs, and move tokens between cookies
// and context. All policy lives in the engine.
package middleware
