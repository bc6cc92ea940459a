package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App     AppConfig
	Log     LogConfig
	Inspect InspectConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
}

type LogConfig struct {
	Level string // debug | info | warn | error
}

// InspectConfig controls the read-only diagnostics server.
type InspectConfig struct {
	Enabled         bool
	Addr            string
	ShutdownTimeout time.Duration // INSPECT_SHUTDOWN_TIMEOUT, in seconds
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "GoContainer"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", true),
		},
		Log: LogConfig{
			Level: env("LOG_LEVEL", "info"),
		},
		Inspect: InspectConfig{
			Enabled:         envBool("INSPECT_ENABLED", false),
			Addr:            env("INSPECT_ADDR", ":8000"),
			ShutdownTimeout: envSeconds("INSPECT_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
	}
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool { return c.App.Env == "production" }

// ── helpers ─────────────────────────────────────────────────────────────────

// lookup returns the trimmed value of key; blank counts as unset.
func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func env(key, fallback string) string {
	if v, ok := lookup(key); ok {
		return v
	}
	return fallback
}

// envBool falls back on unset or unparsable values.
func envBool(key string, fallback bool) bool {
	v, ok := lookup(key)
	if !ok {
		return fallback
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return fallback
}

// envSeconds reads a whole number of seconds. Unset, unparsable and
// negative values fall back.
func envSeconds(key string, fallback time.Duration) time.Duration {
	v, ok := lookup(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}
