package config

import (
	"testing"
	"time"
)

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	c := LoadRateLimitConfig()
	if !c.Enabled {
		t.Error("limiter disabled by default")
	}
	if c.Capacity != 60 || c.RefillTokens != 1 || c.RefillInterval != time.Second {
		t.Errorf("defaults = %d/%d/%v, want 60/1/1s", c.Capacity, c.RefillTokens, c.RefillInterval)
	}
	if c.KeyStrategy != "ip_user_route" {
		t.Errorf("KeyStrategy = %q", c.KeyStrategy)
	}
}

func TestLoadRateLimitConfigNormalization(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	c := LoadRateLimitConfig()
	if c.Capacity != 1 {
		t.Errorf("Capacity = %d, want floor 1", c.Capacity)
	}
	if c.RefillTokens != 1 {
		t.Errorf("RefillTokens = %d, want floor 1", c.RefillTokens)
	}
	if want := 5 * 2 * time.Second; c.TTL != want {
		t.Errorf("TTL = %v, want raised to %v", c.TTL, want)
	}
}

func TestLoadRateLimitConfigShorthand(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "10")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "500ms")

	c := LoadRateLimitConfig()
	if c.Capacity != 10 {
		t.Errorf("Capacity = %d, want 10 from RATE_LIMIT_BURST", c.Capacity)
	}
	if c.RefillTokens != 1 || c.RefillInterval != 500*time.Millisecond {
		t.Errorf("refill = %d per %v, want 1 per 500ms", c.RefillTokens, c.RefillInterval)
	}
}

func TestEnvBool(t *testing.T) {
	cases := []struct {
		val  string
		def  bool
		want bool
	}{
		{"1", false, true},
		{"yes", false, true},
		{"ON", false, true},
		{"0", true, false},
		{"off", true, false},
		{"", true, true},
		{"garbage", false, false},
	}
	for _, tc := range cases {
		t.Setenv("TEST_BOOL", tc.val)
		if got := envBool("TEST_BOOL", tc.def); got != tc.want {
			t.Errorf("envBool(%q, %v) = %v, want %v", tc.val, tc.def, got, tc.want)
		}
	}
}
