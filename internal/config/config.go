// Package config loads runtime configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"grocery-report/internal/locale"
)

// Config holds all configuration for the report tools.
type Config struct {
	Grocery  GroceryConfig
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Log      LogConfig

	// UseFixtures serves the embedded demo data instead of the live service.
	UseFixtures bool
}

// GroceryConfig configures the grocery service client.
type GroceryConfig struct {
	BaseURL          string
	Username         string
	Password         string
	Timeout          time.Duration
	MaxRetries       int
	FetchConcurrency int
}

// HasCredentials reports whether both username and password are set.
func (g GroceryConfig) HasCredentials() bool {
	return g.Username != "" && g.Password != ""
}

type ServerConfig struct {
	Addr            string
	MetricsPath     string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

type PostgresConfig struct {
	DSN      string
	MaxConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether a redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with defaults.
// Credentials are not checked here; call Validate once flag overrides are applied.
func Load() (*Config, error) {
	cfg := &Config{
		Grocery: GroceryConfig{
			BaseURL:          strings.TrimRight(getEnv("ROHLIK_BASE_URL", locale.DefaultBaseURL), "/"),
			Username:         getEnv("ROHLIK_USERNAME", ""),
			Password:         getEnv("ROHLIK_PASSWORD", ""),
			Timeout:          getDurationEnv("GROCERY_HTTP_TIMEOUT", 30*time.Second),
			MaxRetries:       getIntEnv("GROCERY_MAX_RETRIES", 3),
			FetchConcurrency: getIntEnv("GROCERY_FETCH_CONCURRENCY", 1),
		},
		Server: ServerConfig{
			Addr:            getEnv("GROCERY_HTTP_ADDR", ":8080"),
			MetricsPath:     getEnv("GROCERY_METRICS_PATH", "/metrics"),
			CORSOrigins:     getSliceEnv("GROCERY_CORS_ORIGINS", nil),
			ShutdownTimeout: getDurationEnv("GROCERY_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: PostgresConfig{
			DSN:      getEnv("POSTGRES_DSN", ""),
			MaxConns: getIntEnv("POSTGRES_MAX_CONNS", 4),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			TTL:      getDurationEnv("GROCERY_CACHE_TTL", 24*time.Hour),
		},
		Log: LogConfig{
			Level:  getEnv("GROCERY_LOG_LEVEL", "info"),
			Format: getEnv("GROCERY_LOG_FORMAT", "console"),
		},
		UseFixtures: getBoolEnv("GROCERY_USE_FIXTURES", false),
	}

	if err := cfg.checkValues(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if err := c.checkValues(); err != nil {
		return err
	}
	if !c.UseFixtures && !c.Grocery.HasCredentials() {
		return errors.New("ROHLIK_USERNAME and ROHLIK_PASSWORD are required (use --use-fixtures to run with demo data)")
	}
	return nil
}

func (c *Config) checkValues() error {
	u, err := url.Parse(c.Grocery.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("ROHLIK_BASE_URL %q is not an absolute URL", c.Grocery.BaseURL)
	}
	if c.Grocery.MaxRetries < 0 {
		return fmt.Errorf("GROCERY_MAX_RETRIES must not be negative, got %d", c.Grocery.MaxRetries)
	}
	if c.Grocery.FetchConcurrency < 1 {
		return fmt.Errorf("GROCERY_FETCH_CONCURRENCY must be at least 1, got %d", c.Grocery.FetchConcurrency)
	}
	if c.Grocery.Timeout <= 0 {
		return fmt.Errorf("GROCERY_HTTP_TIMEOUT must be positive, got %s", c.Grocery.Timeout)
	}
	if !strings.HasPrefix(c.Server.MetricsPath, "/") {
		return fmt.Errorf("GROCERY_METRICS_PATH must start with /, got %q", c.Server.MetricsPath)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("GROCERY_LOG_FORMAT must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// Currency returns the display currency of the configured storefront.
func (c *Config) Currency() string {
	return locale.Currency(c.Grocery.BaseURL)
}

// LoadEnvFile sets variables from a KEY=VALUE file without overriding the
// environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read env file: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if _, set := os.LookupEnv(key); !set {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("set %s: %w", key, err)
			}
		}
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getSliceEnv(key string, def []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
