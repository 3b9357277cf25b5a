package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "SESSION_TTL_HOURS", "CORS_ALLOW_ORIGINS", "CURRENCY", "DB_MAX_CONNS"} {
		t.Setenv(key, "")
	}
	cfg := FromEnv()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("unexpected session ttl %s", cfg.SessionTTL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
	if cfg.Currency != "IDR" || cfg.DBMaxConns != 10 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("CORS_ALLOW_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("IMAGE_BASE_URL", "http://img.test/")
	t.Setenv("DB_MAX_CONNS", "nope")

	cfg := FromEnv()
	if cfg.ShutdownTimeout != 3*time.Second || cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("unexpected durations %s %s", cfg.ShutdownTimeout, cfg.SessionTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
	if cfg.ImageBaseURL != "http://img.test" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.ImageBaseURL)
	}
	if cfg.DBMaxConns != 10 {
		t.Fatalf("expected invalid value to fall back, got %d", cfg.DBMaxConns)
	}
}

func TestFromEnv_RejectsOutOfRangeValues(t *testing.T) {
	cases := []struct {
		ttl, shutdown, maxConns string
	}{
		{"0", "0", "0"},
		{"-5", "-1", "-3"},
		{"9999999999999", "99999999999999999", "4294967297"},
	}
	for _, tc := range cases {
		t.Setenv("SESSION_TTL_HOURS", tc.ttl)
		t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", tc.shutdown)
		t.Setenv("DB_MAX_CONNS", tc.maxConns)

		cfg := FromEnv()
		if cfg.SessionTTL != 24*time.Hour {
			t.Fatalf("ttl %q: expected default, got %s", tc.ttl, cfg.SessionTTL)
		}
		if cfg.ShutdownTimeout != 10*time.Second {
			t.Fatalf("shutdown %q: expected default, got %s", tc.shutdown, cfg.ShutdownTimeout)
		}
		if cfg.DBMaxConns != 10 {
			t.Fatalf("max conns %q: expected default, got %d", tc.maxConns, cfg.DBMaxConns)
		}
	}
}
