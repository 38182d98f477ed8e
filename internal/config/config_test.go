package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "5175" {
		t.Fatalf("expected default port 5175, got %q", cfg.Port)
	}
	if cfg.CookieName != "codenames_token" {
		t.Fatalf("expected default cookie name, got %q", cfg.CookieName)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.TokenTTL() != 14*24*time.Hour {
		t.Fatalf("expected 14 day ttl, got %s", cfg.TokenTTL())
	}
	if cfg.Production() {
		t.Fatal("expected development by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("REQUEST_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || !cfg.Production() || cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadError(t *testing.T) {
	t.Setenv("JWT_EXPIRES_DAYS", "soon")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadRejectsNonPositiveExpiry(t *testing.T) {
	t.Setenv("JWT_EXPIRES_DAYS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero expiry")
	}
}
