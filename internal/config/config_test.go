package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != EnvLocal {
		t.Fatalf("expected local env, got %q", cfg.Env)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr)
	}
	if cfg.DatabaseDriver != DriverSQLite || cfg.DatabaseURL != "kanban.db" {
		t.Fatalf("unexpected database config: %s %s", cfg.DatabaseDriver, cfg.DatabaseURL)
	}
	if cfg.TokenTTL != time.Hour {
		t.Fatalf("unexpected token ttl %v", cfg.TokenTTL)
	}
	if cfg.CompactInterval != 24*time.Hour {
		t.Fatalf("unexpected compact interval %v", cfg.CompactInterval)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "PROD")
	t.Setenv("DATABASE_DRIVER", "mysql")
	t.Setenv("DATABASE_URL", "user:pass@tcp(db:3306)/kanban?parseTime=true")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("COMPACT_INTERVAL_HOURS", "0")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != EnvProd {
		t.Fatalf("expected prod env, got %q", cfg.Env)
	}
	if cfg.DatabaseDriver != DriverMySQL {
		t.Fatalf("expected mysql driver, got %q", cfg.DatabaseDriver)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("unexpected token ttl %v", cfg.TokenTTL)
	}
	if cfg.CompactInterval != 0 {
		t.Fatalf("expected compaction disabled, got %v", cfg.CompactInterval)
	}
	if !cfg.CookieSecure {
		t.Fatal("expected secure cookie")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"driver":   {"DATABASE_DRIVER", "postgres"},
		"ttl":      {"TOKEN_TTL", "soon"},
		"interval": {"COMPACT_INTERVAL_HOURS", "-1"},
		"env":      {"APP_ENV", "staging"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "secret")
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}

func TestLoadMySQLNeedsURL(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_DRIVER", "mysql")
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for mysql without url")
	}
}
