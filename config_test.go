package authgate

import (
	"testing"
	"time"
)

func TestDefaultRatePresetTable(t *testing.T) {
	presets := DefaultRatePresets()
	want := map[string]RatePreset{
		RatePresetLogin:         {Limit: 5, Window: time.Minute},
		RatePresetRegistration:  {Limit: 3, Window: time.Minute},
		RatePresetPasswordReset: {Limit: 3, Window: 5 * time.Minute},
		RatePresetAPI:           {Limit: 100, Window: time.Minute},
		RatePresetSearch:        {Limit: 30, Window: time.Minute},
		RatePresetContact:       {Limit: 5, Window: time.Hour},
	}
	if len(presets) != len(want) {
		t.Fatalf("preset count = %d, want %d", len(presets), len(want))
	}
	for name, p := range want {
		if presets[name] != p {
			t.Fatalf("preset %s = %+v, want %+v", name, presets[name], p)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults with secret", func(c *Config) {}, true},
		{"short secret", func(c *Config) { c.Token.HS256Secret = []byte("short") }, false},
		{"unknown signing method", func(c *Config) { c.Token.SigningMethod = "rs256" }, false},
		{"zero token ttl", func(c *Config) { c.Token.TTL = 0 }, false},
		{"zero preset limit", func(c *Config) {
			c.RateLimit.Presets["bad"] = RatePreset{Limit: 0, Window: time.Minute}
		}, false},
		{"zero preset window", func(c *Config) {
			c.RateLimit.Presets["bad"] = RatePreset{Limit: 1}
		}, false},
		{"sub-second sweep", func(c *Config) { c.RateLimit.SweepInterval = 100 * time.Millisecond }, false},
		{"zero audit buffer", func(c *Config) { c.Audit.BufferSize = 0 }, false},
		{"zero cache size", func(c *Config) { c.Cache.IdentitySize = 0 }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestBuildAppliesDefaultsToSparseConfig(t *testing.T) {
	engine, err := New().
		WithConfig(Config{
			Token: TokenConfig{HS256Secret: []byte("0123456789abcdef0123456789abcdef")},
			Audit: AuditConfig{Enabled: true},
		}).
		WithLogger(testLogger()).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer engine.Close()

	if engine.cfg.RateLimit.SweepInterval != 5*time.Minute {
		t.Fatalf("sweep interval = %v, want default 5m", engine.cfg.RateLimit.SweepInterval)
	}
	if _, ok := engine.cfg.RateLimit.Presets[RatePresetLogin]; !ok {
		t.Fatal("default presets not applied")
	}
	if engine.cfg.Audit.BufferSize != 256 {
		t.Fatalf("audit buffer = %d, want default 256", engine.cfg.Audit.BufferSize)
	}
}

func TestBuildSharedWindowsRequireRedis(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.SharedWindows = true
	if _, err := New().WithConfig(cfg).WithLogger(testLogger()).Build(); err == nil {
		t.Fatal("expected build error without redis client")
	}
}

func TestBuildClonesConfig(t *testing.T) {
	cfg := testConfig()
	engine, err := New().WithConfig(cfg).WithLogger(testLogger()).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer engine.Close()

	// Mutating the caller's copy after Build must not reach the engine.
	cfg.RateLimit.Presets[RatePresetLogin] = RatePreset{Limit: 9999, Window: time.Minute}
	if engine.cfg.RateLimit.Presets[RatePresetLogin].Limit == 9999 {
		t.Fatal("engine shares preset map with caller config")
	}
}
