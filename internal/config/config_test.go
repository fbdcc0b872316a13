package config

import (
	"os"
	"testing"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	setEnv(t, "DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, "DATABASE_URL", "postgres://localhost/dispatch_test")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Error("expected default env to be development")
	}
	if cfg.DefaultLat != 13.0827 || cfg.DefaultLng != 80.2707 {
		t.Errorf("unexpected default position: %v,%v", cfg.DefaultLat, cfg.DefaultLng)
	}
	if cfg.MQTTTopicPrefix != "ambulances" {
		t.Errorf("unexpected topic prefix %s", cfg.MQTTTopicPrefix)
	}
}

func TestValidate_ProductionNeedsIssuer(t *testing.T) {
	cfg := &Config{Env: "production"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error without AUTH_ISSUER in production")
	}
	cfg.AuthIssuer = "https://auth.example.com/realms/dispatch"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_PositionRange(t *testing.T) {
	cfg := &Config{Env: "development", DefaultLat: 91}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range DEFAULT_LAT")
	}
	cfg = &Config{Env: "development", DefaultLng: -200}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range DEFAULT_LNG")
	}
}
