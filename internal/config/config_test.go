package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Driver != "sqlite3" || cfg.Server.Port != "4000" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if !cfg.ShuffleEnabled() {
		t.Fatalf("expected shuffle on by default")
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  port: "9090"
database:
  driver: postgres
  dsn: postgres://quiz@localhost/quiz
redis:
  addr: localhost:6379
  ttl: 2m
play:
  shuffle: false
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DATABASE_DSN", "postgres://override@localhost/quiz")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Database.Driver != "postgres" {
		t.Fatalf("yaml not applied: %+v", cfg)
	}
	if cfg.Database.DSN != "postgres://override@localhost/quiz" {
		t.Fatalf("expected env dsn, got %s", cfg.Database.DSN)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Fatalf("expected env secret, got %s", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.TokenTTL != "8h" {
		t.Fatalf("expected default token ttl kept, got %s", cfg.Auth.TokenTTL)
	}
	if cfg.ShuffleEnabled() {
		t.Fatalf("expected shuffle disabled")
	}
	if got := TTLDuration(cfg.Redis.TTL, time.Minute); got != 2*time.Minute {
		t.Fatalf("expected 2m, got %s", got)
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if got := TTLDuration("", time.Second); got != time.Second {
		t.Fatalf("expected fallback, got %s", got)
	}
	if got := TTLDuration("garbage", time.Second); got != time.Second {
		t.Fatalf("expected fallback, got %s", got)
	}
}
