package authgate

import (
	"crypto/ed25519"
	"fmt"
	"time"
)

// Names of the built-in rate presets. Presets are plain config data, so
// deployments can retune or extend the table without code changes.
const (
	RatePresetLogin         = "login"
	RatePresetRegistration  = "registration"
	RatePresetPasswordReset = "password_reset"
	RatePresetAPI           = "api"
	RatePresetSearch        = "search"
	RatePresetContact       = "contact"
)

// RatePreset is one fixed-window policy: at most Limit admitted calls per
// Window.
type RatePreset struct {
	Limit  int
	Window time.Duration
}

// DefaultRatePresets returns the built-in preset table.
func DefaultRatePresets() map[string]RatePreset {
	return map[string]RatePreset{
		RatePresetLogin:         {Limit: 5, Window: time.Minute},
		RatePresetRegistration:  {Limit: 3, Window: time.Minute},
		RatePresetPasswordReset: {Limit: 3, Window: 5 * time.Minute},
		RatePresetAPI:           {Limit: 100, Window: time.Minute},
		RatePresetSearch:        {Limit: 30, Window: time.Minute},
		RatePresetContact:       {Limit: 5, Window: time.Hour},
	}
}

// Config is the full engine configuration. Zero values fall back to the
// defaults applied by defaultConfig; Validate runs once during Build.
type Config struct {
	Token     TokenConfig
	Registry  RegistryConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
	Cache     CacheConfig
	Policy    PolicyConfig
}

// TokenConfig mirrors the token manager's signing setup.
type TokenConfig struct {
	// SigningMethod is "hs256" (default) or "ed25519".
	SigningMethod string

	HS256Secret    []byte
	Ed25519Private ed25519.PrivateKey
	Ed25519Public  ed25519.PublicKey

	// Issuer is enforced on parse when non-empty.
	Issuer string

	// TTL bounds token lifetime. Default 30 days.
	TTL time.Duration

	// Leeway tolerates clock skew on exp/nbf. Default zero.
	Leeway time.Duration
}

// RegistryConfig controls the session-version counter store.
type RegistryConfig struct {
	// KeyPrefix namespaces counter keys in Redis. Default "authgate:sver".
	KeyPrefix string
}

// RateLimitConfig controls fixed-window admission.
type RateLimitConfig struct {
	// Presets maps preset names to policies. Defaults to
	// DefaultRatePresets when nil.
	Presets map[string]RatePreset

	// SweepInterval is how often expired windows are evicted.
	// Default 5 minutes.
	SweepInterval time.Duration

	// KeyPrefix namespaces counter keys in Redis. Default "authgate:rl".
	KeyPrefix string

	// SharedWindows selects the Redis store so instances share windows.
	// Requires a Redis client on the builder. Default false: windows are
	// process-local.
	SharedWindows bool
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	// Enabled gates emission entirely. Default true.
	Enabled bool

	// BufferSize is the dispatcher queue capacity. Default 256.
	BufferSize int

	// DropIfFull drops entries under backpressure instead of blocking
	// the emitter. Default true.
	DropIfFull bool
}

// CacheConfig controls the identity lookup cache used by the role guard.
type CacheConfig struct {
	// IdentityTTL bounds staleness of cached identities. Keep this short:
	// a role change or un-approval is invisible until the entry expires
	// or the session version is bumped. Default 30 seconds.
	IdentityTTL time.Duration

	// IdentitySize is the LRU capacity. Default 1024.
	IdentitySize int
}

// PolicyConfig holds authorization knobs.
type PolicyConfig struct {
	// RequireApproved makes the role guard reject unapproved identities
	// with ErrForbidden. Default true.
	RequireApproved bool
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			SigningMethod: "hs256",
			TTL:           30 * 24 * time.Hour,
		},
		Registry: RegistryConfig{
			KeyPrefix: "authgate:sver",
		},
		RateLimit: RateLimitConfig{
			Presets:       DefaultRatePresets(),
			SweepInterval: 5 * time.Minute,
			KeyPrefix:     "authgate:rl",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Cache: CacheConfig{
			IdentityTTL:  30 * time.Second,
			IdentitySize: 1024,
		},
		Policy: PolicyConfig{
			RequireApproved: true,
		},
	}
}

// cloneConfig deep-copies the parts callers could mutate after Build.
func cloneConfig(c Config) Config {
	out := c
	if c.Token.HS256Secret != nil {
		out.Token.HS256Secret = append([]byte(nil), c.Token.HS256Secret...)
	}
	if c.Token.Ed25519Private != nil {
		out.Token.Ed25519Private = append(ed25519.PrivateKey(nil), c.Token.Ed25519Private...)
	}
	if c.Token.Ed25519Public != nil {
		out.Token.Ed25519Public = append(ed25519.PublicKey(nil), c.Token.Ed25519Public...)
	}
	if c.RateLimit.Presets != nil {
		presets := make(map[string]RatePreset, len(c.RateLimit.Presets))
		for name, p := range c.RateLimit.Presets {
			presets[name] = p
		}
		out.RateLimit.Presets = presets
	}
	return out
}

// Validate checks the configuration for values Build cannot work with.
func (c *Config) Validate() error {
	switch c.Token.SigningMethod {
	case "", "hs256":
		if len(c.Token.HS256Secret) < 32 {
			return fmt.Errorf("config: token hs256 secret must be at least 32 bytes")
		}
	case "ed25519":
		if len(c.Token.Ed25519Public) != ed25519.PublicKeySize {
			return fmt.Errorf("config: token ed25519 public key required")
		}
	default:
		return fmt.Errorf("config: unknown token signing method %q", c.Token.SigningMethod)
	}

	if c.Token.TTL <= 0 {
		return fmt.Errorf("config: token ttl must be positive")
	}
	if c.Token.Leeway < 0 {
		return fmt.Errorf("config: token leeway must not be negative")
	}

	for name, p := range c.RateLimit.Presets {
		if name == "" {
			return fmt.Errorf("config: rate preset with empty name")
		}
		if p.Limit <= 0 {
			return fmt.Errorf("config: rate preset %q limit must be positive", name)
		}
		if p.Window <= 0 {
			return fmt.Errorf("config: rate preset %q window must be positive", name)
		}
	}
	if c.RateLimit.SweepInterval < time.Second {
		return fmt.Errorf("config: rate sweep interval must be at least one second")
	}

	if c.Audit.BufferSize <= 0 {
		return fmt.Errorf("config: audit buffer size must be positive")
	}

	if c.Cache.IdentityTTL <= 0 {
		return fmt.Errorf("config: identity cache ttl must be positive")
	}
	if c.Cache.IdentitySize <= 0 {
		return fmt.Errorf("config: identity cache size must be positive")
	}

	return nil
}
