package config

import (
	"testing"
	"time"
)

func TestLoadCacheConfigDefaults(t *testing.T) {
	c := LoadCacheConfig()
	if !c.Enabled {
		t.Error("cache disabled by default")
	}
	if c.TTL != 30*time.Second {
		t.Errorf("TTL = %v, want 30s", c.TTL)
	}
	if !c.Methods["GET"] || len(c.Methods) != 1 {
		t.Errorf("Methods = %v, want GET only", c.Methods)
	}
}

func TestParseMethods(t *testing.T) {
	m := parseMethods("get, Head ,,POST")
	for _, want := range []string{"GET", "HEAD", "POST"} {
		if !m[want] {
			t.Errorf("missing method %s in %v", want, m)
		}
	}
	if len(m) != 3 {
		t.Errorf("parsed %d methods, want 3", len(m))
	}
}
