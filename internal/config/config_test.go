package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CACHE_TTL_SECONDS", "")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.CacheTTLSeconds != 120 {
		t.Fatalf("expected default cache TTL 120, got %d", cfg.CacheTTLSeconds)
	}
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Fatalf("expected default token TTL 480, got %d", cfg.AccessTokenTTLMinutes)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("CACHE_TTL_SECONDS", "30")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()
	if cfg.Port != "9999" {
		t.Fatalf("expected port override, got %q", cfg.Port)
	}
	if cfg.CacheTTLSeconds != 30 {
		t.Fatalf("expected cache TTL 30, got %d", cfg.CacheTTLSeconds)
	}
	if cfg.RedisDB != 3 {
		t.Fatalf("expected redis db 3, got %d", cfg.RedisDB)
	}
	if cfg.Address() != ":9999" {
		t.Fatalf("expected address :9999, got %q", cfg.Address())
	}
}

func TestLoadRejectsBadTTL(t *testing.T) {
	t.Setenv("CACHE_TTL_SECONDS", "zero")

	cfg := Load()
	if cfg.CacheTTLSeconds != 120 {
		t.Fatalf("expected fallback TTL for unparsable value, got %d", cfg.CacheTTLSeconds)
	}
}
