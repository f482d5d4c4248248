package authgate

import (
	"fmt"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	internalaudit "github.com/MrEthical07/authgate/internal/audit"
	"github.com/MrEthical07/authgate/internal/ratelimit"
	"github.com/MrEthical07/authgate/internal/registry"
	"github.com/MrEthical07/authgate/token"
)

// Builder assembles an Engine. Chain the With methods and finish with
// Build; Build validates the configuration and starts the background
// workers (audit dispatcher, rate-limit sweeper).
type Builder struct {
	cfg        *Config
	redis      redis.UniversalClient
	regStore   registry.Store
	rateStore  ratelimit.Store
	identities IdentityProvider
	sink       AuditSink
	log        logrus.FieldLogger
}

func New() *Builder {
	return &Builder{}
}

// WithConfig replaces the default configuration. Zero-valued fields are
// backfilled from defaults before validation, except Audit.Enabled and
// Policy.RequireApproved which are taken as given.
func (b *Builder) WithConfig(cfg Config) *Builder {
	c := cloneConfig(cfg)
	b.cfg = &c
	return b
}

// WithRedis supplies the Redis client backing the version registry and,
// when RateLimit.SharedWindows is set, the rate-limit store.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithRegistryStore overrides the version counter store. Takes precedence
// over WithRedis for the registry concern.
func (b *Builder) WithRegistryStore(store registry.Store) *Builder {
	b.regStore = store
	return b
}

// WithRateStore overrides the rate-limit window store.
func (b *Builder) WithRateStore(store ratelimit.Store) *Builder {
	b.rateStore = store
	return b
}

// WithIdentityProvider supplies the identity collaborator. Optional;
// without it ValidateSession still works but RequireRole returns
// ErrEngineNotReady.
func (b *Builder) WithIdentityProvider(p IdentityProvider) *Builder {
	b.identities = p
	return b
}

// WithAuditSink supplies the audit destination. Without one, enabled
// auditing dispatches to a no-op sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	return b
}

// WithLogger supplies the structured logger. Defaults to logrus.New().
func (b *Builder) WithLogger(log logrus.FieldLogger) *Builder {
	b.log = log
	return b
}

func (b *Builder) Build() (*Engine, error) {
	var cfg Config
	if b.cfg != nil {
		cfg = cloneConfig(*b.cfg)
	} else {
		cfg = defaultConfig()
	}
	applyConfigDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := b.log
	if log == nil {
		log = logrus.New()
	}

	tokens, err := token.NewManager(token.Config{
		SigningMethod:  cfg.Token.SigningMethod,
		HS256Secret:    cfg.Token.HS256Secret,
		Ed25519Private: cfg.Token.Ed25519Private,
		Ed25519Public:  cfg.Token.Ed25519Public,
		Issuer:         cfg.Token.Issuer,
		TTL:            cfg.Token.TTL,
		Leeway:         cfg.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}

	regStore := b.regStore
	if regStore == nil {
		if b.redis != nil {
			regStore = registry.NewRedisStore(b.redis, cfg.Registry.KeyPrefix)
		} else {
			log.Warn("no redis client: session versions are process-local and reset on restart")
			regStore = registry.NewMemoryStore()
		}
	}

	rateStore := b.rateStore
	if rateStore == nil {
		if cfg.RateLimit.SharedWindows {
			if b.redis == nil {
				return nil, fmt.Errorf("config: shared rate windows require a redis client")
			}
			rateStore = ratelimit.NewRedisStore(b.redis, cfg.RateLimit.KeyPrefix)
		} else {
			rateStore = ratelimit.NewMemoryStore()
		}
	}
	limiter := ratelimit.NewLimiter(rateStore, log)
	sweeper := ratelimit.NewSweeper(limiter, cfg.RateLimit.SweepInterval, log)
	if err := sweeper.Start(); err != nil {
		return nil, fmt.Errorf("config: rate sweep schedule: %w", err)
	}

	var dispatcher *internalaudit.Dispatcher
	if cfg.Audit.Enabled {
		sink := b.sink
		if sink == nil {
			sink = internalaudit.NoOpSink{}
		}
		dispatcher = internalaudit.NewDispatcher(internalaudit.DispatcherConfig{
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, sink)
	}

	e := &Engine{
		cfg:           cfg,
		log:           log,
		registry:      regStore,
		limiter:       limiter,
		sweeper:       sweeper,
		tokens:        tokens,
		identities:    b.identities,
		identityCache: expirable.NewLRU[string, Identity](cfg.Cache.IdentitySize, nil, cfg.Cache.IdentityTTL),
		audit:         dispatcher,
		metrics:       newEngineMetrics(),
	}
	return e, nil
}

// applyConfigDefaults backfills unset fields so a sparse literal Config is
// usable. Booleans are left alone.
func applyConfigDefaults(cfg *Config) {
	def := defaultConfig()

	if cfg.Token.SigningMethod == "" {
		cfg.Token.SigningMethod = def.Token.SigningMethod
	}
	if cfg.Token.TTL == 0 {
		cfg.Token.TTL = def.Token.TTL
	}
	if cfg.Registry.KeyPrefix == "" {
		cfg.Registry.KeyPrefix = def.Registry.KeyPrefix
	}
	if cfg.RateLimit.Presets == nil {
		cfg.RateLimit.Presets = def.RateLimit.Presets
	}
	if cfg.RateLimit.SweepInterval == 0 {
		cfg.RateLimit.SweepInterval = def.RateLimit.SweepInterval
	}
	if cfg.RateLimit.KeyPrefix == "" {
		cfg.RateLimit.KeyPrefix = def.RateLimit.KeyPrefix
	}
	if cfg.Audit.BufferSize == 0 {
		cfg.Audit.BufferSize = def.Audit.BufferSize
	}
	if cfg.Cache.IdentityTTL == 0 {
		cfg.Cache.IdentityTTL = def.Cache.IdentityTTL
	}
	if cfg.Cache.IdentitySize == 0 {
		cfg.Cache.IdentitySize = def.Cache.IdentitySize
	}
}
