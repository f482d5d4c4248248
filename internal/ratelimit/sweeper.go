package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Sweeper periodically evicts expired windows from the limiter's store.
// It owns its cron runner, so Start and Stop give callers a clean
// lifecycle instead of a fire-and-forget timer.
type Sweeper struct {
	limiter  *Limiter
	interval time.Duration
	log      logrus.FieldLogger

	mu      sync.Mutex
	cron    *cron.Cron
	started bool
}

func NewSweeper(limiter *Limiter, interval time.Duration, log logrus.FieldLogger) *Sweeper {
	if interval < time.Second {
		// cron's @every rounds sub-second delays up anyway.
		interval = time.Second
	}
	if log == nil {
		log = logrus.New()
	}
	return &Sweeper{
		limiter:  limiter,
		interval: interval,
		log:      log,
	}
}

// Start schedules the sweep. Calling Start on a running sweeper is a no-op.
func (s *Sweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc("@every "+s.interval.String(), func() {
		s.limiter.Sweep(context.Background())
	})
	if err != nil {
		return err
	}

	c.Start()
	s.cron = c
	s.started = true
	s.log.WithField("interval", s.interval).Debug("rate limit sweeper started")
	return nil
}

// Stop cancels the schedule and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	<-s.cron.Stop().Done()
	s.cron = nil
	s.started = false
}
