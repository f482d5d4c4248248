package signout

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// scriptedClient records the step order and lets tests inject failures.
type scriptedClient struct {
	mu    sync.Mutex
	steps []string

	clearErr   error
	clearBlock chan struct{}
	resetPanic bool
}

func (c *scriptedClient) record(step string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.steps = append(c.steps, step)
}

func (c *scriptedClient) recorded() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.steps))
	copy(out, c.steps)
	return out
}

func (c *scriptedClient) ClearPersisted() error {
	if c.clearBlock != nil {
		<-c.clearBlock
	}
	c.record("clear_persisted")
	return c.clearErr
}

func (c *scriptedClient) Reset() {
	c.record("reset_credentials")
	if c.resetPanic {
		panic("credential store corrupted")
	}
}

func (c *scriptedClient) ResetAuthState() {
	c.record("reset_auth_state")
}

func newTestCoordinator(t *testing.T, sc *scriptedClient, teardownURL string, navigated *atomic.Int64) *Coordinator {
	t.Helper()
	return New(
		Config{
			TeardownURL:      teardownURL,
			TeardownTimeout:  time.Second,
			PropagationDelay: time.Millisecond,
			LoginURL:         "/login",
		},
		Deps{
			Credentials: sc,
			State:       sc,
			Navigate: func(url string) {
				if url != "/login" {
					t.Errorf("navigated to %q, want /login", url)
				}
				sc.record("navigate")
				navigated.Add(1)
			},
			Logger: testLogger(),
		},
	)
}

func TestInitiateRunsStepsInOrder(t *testing.T) {
	var teardownCalls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("teardown method = %s, want POST", r.Method)
		}
		teardownCalls.Add(1)
	}))
	defer srv.Close()

	sc := &scriptedClient{}
	var navigated atomic.Int64
	c := newTestCoordinator(t, sc, srv.URL, &navigated)

	c.Initiate(context.Background())

	want := []string{"clear_persisted", "reset_credentials", "reset_auth_state", "navigate"}
	got := sc.recorded()
	if len(got) != len(want) {
		t.Fatalf("steps = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("step %d = %s, want %s (full: %v)", i, got[i], want[i], got)
		}
	}
	if teardownCalls.Load() != 1 {
		t.Fatalf("teardown calls = %d, want 1", teardownCalls.Load())
	}
	if c.InFlight() {
		t.Fatal("coordinator still in flight after completion")
	}
}

func TestInitiateDuplicateWhileInFlight(t *testing.T) {
	sc := &scriptedClient{clearBlock: make(chan struct{})}
	var navigated atomic.Int64
	c := newTestCoordinator(t, sc, "", &navigated)

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Initiate(context.Background())
	}()

	// Wait for the first call to take the guard.
	deadline := time.Now().Add(2 * time.Second)
	for !c.InFlight() {
		if time.Now().After(deadline) {
			t.Fatal("first initiate never started")
		}
		time.Sleep(time.Millisecond)
	}

	// Duplicate clicks while in flight are dropped without side effects.
	c.Initiate(context.Background())
	c.Initiate(context.Background())
	if navigated.Load() != 0 {
		t.Fatal("duplicate call navigated")
	}

	close(sc.clearBlock)
	<-done

	if navigated.Load() != 1 {
		t.Fatalf("navigations = %d, want exactly 1", navigated.Load())
	}
}

func TestInitiateStepFailuresDoNotAbort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sc := &scriptedClient{clearErr: errors.New("storage unavailable")}
	var navigated atomic.Int64
	c := newTestCoordinator(t, sc, srv.URL, &navigated)

	c.Initiate(context.Background())

	if navigated.Load() != 1 {
		t.Fatal("failed steps prevented terminal navigation")
	}
	if c.InFlight() {
		t.Fatal("in-flight guard leaked")
	}
}

func TestInitiateUnreachableTeardownEndpoint(t *testing.T) {
	sc := &scriptedClient{}
	var navigated atomic.Int64
	// Closed port: the POST fails immediately.
	c := newTestCoordinator(t, sc, "http://127.0.0.1:1", &navigated)

	c.Initiate(context.Background())

	if navigated.Load() != 1 {
		t.Fatal("network failure prevented terminal navigation")
	}
}

func TestInitiateTeardownTimeoutBounded(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	sc := &scriptedClient{}
	var navigated atomic.Int64
	c := New(
		Config{TeardownURL: srv.URL, TeardownTimeout: 50 * time.Millisecond, PropagationDelay: time.Millisecond},
		Deps{Credentials: sc, State: sc, Navigate: func(string) { navigated.Add(1) }, Logger: testLogger()},
	)

	start := time.Now()
	c.Initiate(context.Background())

	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("initiate took %v against a hung server", elapsed)
	}
	if navigated.Load() != 1 {
		t.Fatal("hung teardown prevented terminal navigation")
	}
}

func TestInitiatePanicStillReachesTerminalSteps(t *testing.T) {
	sc := &scriptedClient{resetPanic: true}
	var navigated atomic.Int64
	c := newTestCoordinator(t, sc, "", &navigated)

	c.Initiate(context.Background())

	got := sc.recorded()
	last := got[len(got)-2:]
	if last[0] != "reset_auth_state" || last[1] != "navigate" {
		t.Fatalf("terminal steps missing after panic: %v", got)
	}
	if c.InFlight() {
		t.Fatal("panic left the coordinator in flight")
	}

	// And the coordinator is reusable afterwards.
	sc.resetPanic = false
	c.Initiate(context.Background())
	if navigated.Load() != 2 {
		t.Fatalf("navigations = %d, want 2", navigated.Load())
	}
}
