package config

import (
	"testing"
	"time"
)

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	cfg := LoadRateLimitConfig()
	if !cfg.Enabled {
		t.Error("rate limiting should default to enabled")
	}
	if cfg.Capacity < 1 || cfg.RefillTokens < 1 {
		t.Errorf("capacity/refill floors violated: %+v", cfg)
	}
	if cfg.TTL < 5*cfg.RefillInterval {
		t.Errorf("TTL %s below floor of 5x refill interval %s", cfg.TTL, cfg.RefillInterval)
	}
}

func TestLoadRateLimitConfigOverrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "10")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")
	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 10 {
		t.Errorf("burst override ignored: capacity = %d", cfg.Capacity)
	}
	if cfg.RefillTokens != 1 || cfg.RefillInterval != 2*time.Second {
		t.Errorf("refill-every override ignored: %+v", cfg)
	}
}

func TestParseMethods(t *testing.T) {
	m := parseMethods("get, head,POST ,")
	for _, want := range []string{"GET", "HEAD", "POST"} {
		if !m[want] {
			t.Errorf("missing method %s", want)
		}
	}
	if len(m) != 3 {
		t.Errorf("expected 3 methods, got %d", len(m))
	}
}
