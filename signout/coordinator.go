package signout

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// CredentialStore is the client's local credential cache (stored tokens,
// remembered account hints). Clearing it is best-effort.
type CredentialStore interface {
	// ClearPersisted removes credentials from durable client storage.
	ClearPersisted() error

	// Reset drops in-memory credential handles.
	Reset()
}

// StateStore holds the client's in-memory auth state (current identity,
// cached flags). ResetAuthState must be safe to call at any time.
type StateStore interface {
	ResetAuthState()
}

// Config tunes the teardown sequence.
type Config struct {
	// TeardownURL is the server endpoint that clears the session cookie.
	TeardownURL string

	// TeardownTimeout bounds the teardown request so a hung server cannot
	// wedge sign-out. Default 5s.
	TeardownTimeout time.Duration

	// PropagationDelay is a short pause after teardown so the cookie
	// clear settles before navigation re-renders auth-dependent UI.
	// Default 100ms.
	PropagationDelay time.Duration

	// LoginURL is the terminal navigation target. Default "/login".
	LoginURL string
}

// Deps are the coordinator's collaborators. Navigate performs the hard
// navigation and must not return control to the caller's auth-dependent
// flow; HTTPClient defaults to http.DefaultClient, Logger to logrus.New().
type Deps struct {
	Credentials CredentialStore
	State       StateStore
	Navigate    func(url string)
	HTTPClient  *http.Client
	Logger      logrus.FieldLogger
}

// Coordinator runs the sign-out sequence. At most one sequence is in
// flight per instance; extra Initiate calls while one runs are dropped.
type Coordinator struct {
	cfg  Config
	deps Deps

	inFlight atomic.Bool
}

func New(cfg Config, deps Deps) *Coordinator {
	if cfg.TeardownTimeout <= 0 {
		cfg.TeardownTimeout = 5 * time.Second
	}
	if cfg.PropagationDelay < 0 {
		cfg.PropagationDelay = 0
	} else if cfg.PropagationDelay == 0 {
		cfg.PropagationDelay = 100 * time.Millisecond
	}
	if cfg.LoginURL == "" {
		cfg.LoginURL = "/login"
	}
	if deps.HTTPClient == nil {
		deps.HTTPClient = http.DefaultClient
	}
	if deps.Logger == nil {
		deps.Logger = logrus.New()
	}
	return &Coordinator{cfg: cfg, deps: deps}
}

// InFlight reports whether a sequence is currently running.
func (c *Coordinator) InFlight() bool {
	return c.inFlight.Load()
}

// Initiate runs the sign-out sequence. A call while another sequence is in
// flight logs and returns immediately without navigating.
//
// Step failures are logged and never abort the sequence: a dead teardown
// endpoint or a broken credential store still ends with auth state reset
// and navigation to the login page. The terminal steps run from a deferred
// handler, so even a panicking collaborator cannot leave the client half
// signed out or the coordinator stuck in flight.
func (c *Coordinator) Initiate(ctx context.Context) {
	if !c.inFlight.CompareAndSwap(false, true) {
		c.deps.Logger.Debug("sign-out already in flight, ignoring")
		return
	}
	log := c.deps.Logger

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("sign-out step panicked, completing teardown")
		}
		if c.deps.State != nil {
			c.deps.State.ResetAuthState()
		}
		// Clear the guard before navigating: navigation may synchronously
		// re-enter auth flows that check it.
		c.inFlight.Store(false)
		if c.deps.Navigate != nil {
			c.deps.Navigate(c.cfg.LoginURL)
		}
	}()

	if c.deps.Credentials != nil {
		if err := c.deps.Credentials.ClearPersisted(); err != nil {
			log.WithError(err).Warn("clearing persisted credentials failed")
		}
		c.deps.Credentials.Reset()
	}

	c.teardown(ctx)

	if c.cfg.PropagationDelay > 0 {
		time.Sleep(c.cfg.PropagationDelay)
	}
}

// teardown tells the server to clear the session cookie. Bounded by the
// configured timeout; every failure mode is non-fatal.
func (c *Coordinator) teardown(ctx context.Context) {
	if c.cfg.TeardownURL == "" {
		return
	}
	log := c.deps.Logger

	tctx, cancel := context.WithTimeout(ctx, c.cfg.TeardownTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(tctx, http.MethodPost, c.cfg.TeardownURL, nil)
	if err != nil {
		log.WithError(err).Warn("building teardown request failed")
		return
	}

	resp, err := c.deps.HTTPClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("session teardown request failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.WithField("status", resp.StatusCode).Warn("session teardown returned non-success")
	}
}
