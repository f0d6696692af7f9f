package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.HTTPPort != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseMaxConns != 25 {
		t.Errorf("expected default max conns 25, got %d", cfg.DatabaseMaxConns)
	}

	if cfg.ReportCacheTTL != 15*time.Minute {
		t.Errorf("expected default report cache TTL 15m, got %s", cfg.ReportCacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("RATE_LIMIT_RPS", "5")
	t.Setenv("JWT_EXPIRATION", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.HTTPPort != "9999" {
		t.Errorf("expected port 9999, got %s", cfg.HTTPPort)
	}

	if cfg.RateLimitRPS != 5 {
		t.Errorf("expected rate limit 5, got %f", cfg.RateLimitRPS)
	}

	if cfg.JWTExpiration != time.Hour {
		t.Errorf("expected 1h expiration, got %s", cfg.JWTExpiration)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	if !errors.Is(err, ErrMissingJWTSecret) {
		t.Fatalf("expected ErrMissingJWTSecret, got %v", err)
	}
}
