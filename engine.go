package authgate

import (
	"sync/atomic"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	internalaudit "github.com/MrEthical07/authgate/internal/audit"
	"github.com/MrEthical07/authgate/internal/ratelimit"
	"github.com/MrEthical07/authgate/internal/registry"
	"github.com/MrEthical07/authgate/token"
)

// Engine is the runtime facade. Build one through the Builder; all methods
// are safe for concurrent use.
type Engine struct {
	cfg Config
	log logrus.FieldLogger

	registry   registry.Store
	limiter    *ratelimit.Limiter
	sweeper    *ratelimit.Sweeper
	tokens     *token.Manager
	identities IdentityProvider

	identityCache *expirable.LRU[string, Identity]
	audit         *internalaudit.Dispatcher
	metrics       *engineMetrics

	// versionReads collapses concurrent registry reads for the same user.
	versionReads singleflight.Group

	closed atomic.Bool
}

func (e *Engine) ready() error {
	if e == nil || e.registry == nil || e.tokens == nil {
		return ErrEngineNotReady
	}
	if e.closed.Load() {
		return ErrEngineClosed
	}
	return nil
}

// Close stops the rate-limit sweeper and drains the audit dispatcher.
// Engine methods return ErrEngineClosed afterwards. Safe to call more
// than once.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if !e.closed.CompareAndSwap(false, true) {
		return
	}
	if e.sweeper != nil {
		e.sweeper.Stop()
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit entries were discarded under
// backpressure since Build.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}
