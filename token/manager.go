package token

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signing method names accepted by Config.SigningMethod.
const (
	MethodHS256   = "hs256"
	MethodEd25519 = "ed25519"
)

// ErrInvalid covers every way a presented token can fail: bad format, bad
// signature, wrong algorithm, expired, not yet valid, wrong issuer.
// Callers get one sentinel so error text never leaks which check failed.
var ErrInvalid = errors.New("token: invalid")

// Config describes how session tokens are signed and validated.
type Config struct {
	// SigningMethod selects hs256 (default) or ed25519.
	SigningMethod string

	// HS256Secret is required for hs256 and must be at least 32 bytes.
	HS256Secret []byte

	// Ed25519 key pair, required for ed25519. Public alone is enough for
	// a verify-only manager.
	Ed25519Private ed25519.PrivateKey
	Ed25519Public  ed25519.PublicKey

	// Issuer is stamped into iss and enforced on parse when non-empty.
	Issuer string

	// TTL bounds token lifetime. Defaults to 30 days, matching the
	// session-scoped cookie's practical lifetime.
	TTL time.Duration

	// Leeway tolerates clock skew when validating exp/nbf.
	Leeway time.Duration
}

// Claims is the session token payload. Subject carries the user ID.
// Version is a pointer so its absence survives a decode round trip:
// nil means the token predates session versioning.
type Claims struct {
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	Version *int64 `json:"sver,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim.
func (c *Claims) UserID() string {
	return c.Subject
}

// Manager signs and parses session tokens.
type Manager struct {
	cfg       Config
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
	now       func() time.Time
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * 24 * time.Hour
	}

	m := &Manager{cfg: cfg, now: time.Now}

	switch strings.ToLower(cfg.SigningMethod) {
	case "", MethodHS256:
		if len(cfg.HS256Secret) < 32 {
			return nil, fmt.Errorf("token: hs256 secret must be at least 32 bytes")
		}
		m.method = jwt.SigningMethodHS256
		m.signKey = cfg.HS256Secret
		m.verifyKey = cfg.HS256Secret
	case MethodEd25519:
		if len(cfg.Ed25519Public) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("token: ed25519 public key required")
		}
		m.method = jwt.SigningMethodEdDSA
		m.verifyKey = cfg.Ed25519Public
		if cfg.Ed25519Private != nil {
			if len(cfg.Ed25519Private) != ed25519.PrivateKeySize {
				return nil, fmt.Errorf("token: ed25519 private key malformed")
			}
			m.signKey = cfg.Ed25519Private
		}
	default:
		return nil, fmt.Errorf("token: unsupported signing method %q", cfg.SigningMethod)
	}

	return m, nil
}

// Issue signs a token for the given identity attributes. version may be
// nil to mint a token without a version snapshot.
func (m *Manager) Issue(userID, email, role string, version *int64) (string, error) {
	if m.signKey == nil {
		return "", fmt.Errorf("token: manager is verify-only")
	}
	if userID == "" {
		return "", fmt.Errorf("token: user id required")
	}

	now := m.now()
	claims := Claims{
		Email:   email,
		Role:    role,
		Version: version,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
		},
	}

	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.signKey)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Parse validates signature, algorithm, expiry, and issuer, returning the
// claims or ErrInvalid.
func (m *Manager) Parse(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrInvalid
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(m.cfg.Leeway),
		jwt.WithTimeFunc(m.now),
	}
	if m.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.cfg.Issuer))
	}

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return m.verifyKey, nil
	}, opts...)
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if claims.Subject == "" {
		return nil, ErrInvalid
	}
	return claims, nil
}
