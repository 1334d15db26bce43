package config

import "testing"

func TestLoadDoesNotInjectWeakAuthDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")

	cfg := Load()
	if cfg.AuthSecret != "" {
		t.Fatalf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
}

func TestLoadFallsBackOnBadTTLs(t *testing.T) {
	t.Setenv("PROMO_CACHE_TTL_SECONDS", "not-a-number")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "-5")

	cfg := Load()
	if cfg.PromoCacheTTLSeconds != 30 {
		t.Fatalf("expected promo cache ttl fallback 30, got %d", cfg.PromoCacheTTLSeconds)
	}
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Fatalf("expected token ttl fallback 480, got %d", cfg.AccessTokenTTLMinutes)
	}
}
