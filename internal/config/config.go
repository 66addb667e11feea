package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config keeps runtime settings for the server.
type Config struct {
	Env             string
	LogFile         string
	HTTPAddr        string
	DatabaseDriver  string
	DatabaseURL     string
	JWTSecret       string
	TokenTTL        time.Duration
	CookieSecure    bool
	RedisURL        string
	TasksCacheTTL   time.Duration
	CompactInterval time.Duration
	CompactAt       string
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		Env:             strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV"))),
		LogFile:         strings.TrimSpace(os.Getenv("LOG_FILE")),
		HTTPAddr:        strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		DatabaseDriver:  strings.ToLower(strings.TrimSpace(os.Getenv("DATABASE_DRIVER"))),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		RedisURL:        strings.TrimSpace(os.Getenv("REDIS_URL")),
		CompactAt:       strings.TrimSpace(os.Getenv("COMPACT_AT")),
		CompactInterval: 24 * time.Hour,
	}

	if cfg.Env == "" {
		cfg.Env = EnvLocal
	}
	switch cfg.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return cfg, fmt.Errorf("unknown APP_ENV %q", cfg.Env)
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	if cfg.DatabaseDriver == "" {
		cfg.DatabaseDriver = DriverSQLite
	}
	if cfg.DatabaseDriver != DriverSQLite && cfg.DatabaseDriver != DriverMySQL {
		return cfg, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseDriver == DriverMySQL {
			return cfg, fmt.Errorf("DATABASE_URL is required for mysql")
		}
		cfg.DatabaseURL = "kanban.db"
	}

	var err error
	if cfg.TokenTTL, err = parseDuration("TOKEN_TTL", time.Hour); err != nil {
		return cfg, err
	}
	if cfg.TasksCacheTTL, err = parseDuration("TASKS_CACHE_TTL", 5*time.Minute); err != nil {
		return cfg, err
	}

	if raw := strings.TrimSpace(os.Getenv("COMPACT_INTERVAL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours < 0 {
			return cfg, fmt.Errorf("invalid COMPACT_INTERVAL_HOURS %q", raw)
		}
		cfg.CompactInterval = time.Duration(hours) * time.Hour
	}

	if raw := strings.TrimSpace(os.Getenv("COOKIE_SECURE")); raw != "" {
		secure, err := strconv.ParseBool(raw)
		if err != nil {
			return cfg, fmt.Errorf("invalid COOKIE_SECURE %q", raw)
		}
		cfg.CookieSecure = secure
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func parseDuration(name string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return d, nil
}
