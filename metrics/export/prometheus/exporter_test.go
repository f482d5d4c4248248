package prometheus

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MrEthical07/authgate"
)

func newTestEngine(t *testing.T) *authgate.Engine {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	engine, err := authgate.New().
		WithConfig(authgate.Config{
			Token: authgate.TokenConfig{HS256Secret: []byte("0123456789abcdef0123456789abcdef")},
		}).
		WithLogger(log).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func TestRenderExposition(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	if _, err := engine.IssueSession(ctx, authgate.Identity{ID: "u1"}); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := engine.CheckRate(ctx, "k", authgate.RatePreset{Limit: 1, Window: time.Minute}); err != nil {
		t.Fatalf("check rate: %v", err)
	}

	body := New(engine, "").Render()
	for _, want := range []string{
		"# TYPE authgate_sessions_issued_total counter",
		"authgate_sessions_issued_total 1",
		"authgate_rate_allowed_total 1",
		"authgate_audit_dropped_total 0",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("exposition missing %q:\n%s", want, body)
		}
	}
}

func TestServeHTTP(t *testing.T) {
	engine := newTestEngine(t)

	rec := httptest.NewRecorder()
	New(engine, "custom").ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "custom_validate_ok_total 0") {
		t.Fatalf("body missing namespaced counter:\n%s", rec.Body.String())
	}
}
