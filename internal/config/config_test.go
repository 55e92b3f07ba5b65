package config

import (
	"context"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Server.Port)
	}
	if got := cfg.Server.GetServerAddr(); got != "0.0.0.0:8080" {
		t.Errorf("unexpected server addr %q", got)
	}
	if cfg.Database.Name != "advert" {
		t.Errorf("expected default database name advert, got %q", cfg.Database.Name)
	}
	if got := cfg.Redis.GetLockTTL(); got != 10*time.Second {
		t.Errorf("expected default lock TTL 10s, got %v", got)
	}
	if got := cfg.Points.GetTimeout(); got != 3*time.Second {
		t.Errorf("expected default points timeout 3s, got %v", got)
	}
	if !cfg.App.IsDevelopment() {
		t.Error("expected development environment by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("REDIS_LOCK_TTL", "30")
	t.Setenv("APP_ENVIRONMENT", "production")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != "9999" {
		t.Errorf("expected port 9999, got %q", cfg.Server.Port)
	}
	if got := cfg.Redis.GetLockTTL(); got != 30*time.Second {
		t.Errorf("expected lock TTL 30s, got %v", got)
	}
	if !cfg.App.IsProduction() {
		t.Error("expected production environment")
	}
}

func TestGetDatabaseURL(t *testing.T) {
	c := DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "advert",
		Password: "secret",
		Name:     "advert",
		SSLMode:  "require",
	}

	want := "host=db.internal port=5433 user=advert password=secret dbname=advert sslmode=require"
	if got := c.GetDatabaseURL(); got != want {
		t.Errorf("GetDatabaseURL() = %q, want %q", got, want)
	}
}
