package authgate

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig() Config {
	cfg := defaultConfig()
	cfg.Token.HS256Secret = []byte("0123456789abcdef0123456789abcdef")
	return cfg
}

// fakeProvider is an in-memory IdentityProvider that counts lookups.
type fakeProvider struct {
	mu         sync.Mutex
	identities map[string]Identity
	err        error
	lookups    int
}

func newFakeProvider(ids ...Identity) *fakeProvider {
	p := &fakeProvider{identities: make(map[string]Identity)}
	for _, id := range ids {
		p.identities[id.ID] = id
	}
	return p
}

func (p *fakeProvider) IdentityByID(_ context.Context, id string) (Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lookups++
	if p.err != nil {
		return Identity{}, p.err
	}
	identity, ok := p.identities[id]
	if !ok {
		return Identity{}, ErrIdentityNotFound
	}
	return identity, nil
}

func (p *fakeProvider) lookupCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lookups
}

// captureSink records every emitted entry.
type captureSink struct {
	mu      sync.Mutex
	entries []AuditEntry
}

func (s *captureSink) Emit(_ context.Context, entry AuditEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

func (s *captureSink) all() []AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AuditEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func newTestEngine(t *testing.T, opts ...func(*Builder)) *Engine {
	t.Helper()
	b := New().WithConfig(testConfig()).WithLogger(testLogger())
	for _, opt := range opts {
		opt(b)
	}
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}
