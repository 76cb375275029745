// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the API origin used when none is configured. It points
// at a local clicklar-devapi.
const DefaultBaseURL = "http://localhost:8080/api"

// Session backends.
const (
	SessionBackendFile   = "file"
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config is the top-level application configuration.
type Config struct {
	API           APIConfig           `yaml:"api"`
	Browse        BrowseConfig        `yaml:"browse"`
	Session       SessionConfig       `yaml:"session"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
	Logging       LoggingConfig       `yaml:"logging"`
	Server        ServerConfig        `yaml:"server"`
	Auth          AuthConfig          `yaml:"auth"`
	SeedFile      string              `yaml:"seed_file"`
}

// APIConfig defines how the client reaches the marketplace API.
type APIConfig struct {
	BaseURL   string          `yaml:"base_url"`
	Timeout   time.Duration   `yaml:"timeout"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines client-side request rate limiting. A zero
// PerSecond disables the limiter.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// BrowseConfig defines listing browse behavior.
type BrowseConfig struct {
	Debounce time.Duration `yaml:"debounce"` // default: 500ms
}

// SessionConfig defines where the session token is persisted.
type SessionConfig struct {
	Backend string      `yaml:"backend"` // file, memory, redis
	Path    string      `yaml:"path"`
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig defines the Redis session backend.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// TelemetryConfig defines OpenTelemetry export. An empty OTLPEndpoint
// disables export.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	ServiceName  string `yaml:"service_name"`
	Insecure     bool   `yaml:"insecure"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// ServerConfig defines the dev API Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Addr returns the host:port listen address.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AuthConfig defines dev API token signing.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"` // default: 24h
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, or returns the defaults when path is empty or
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		cfg, err := Load(path)
		if err == nil || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}
	return Default(), nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyAPIDefaults(&cfg.API)
	applyBrowseDefaults(&cfg.Browse)
	applySessionDefaults(&cfg.Session)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyLoggingDefaults(&cfg.Logging)
	applyServerDefaults(&cfg.Server)
	applyAuthDefaults(&cfg.Auth)
}

func applyAPIDefaults(a *APIConfig) {
	if a.BaseURL == "" {
		a.BaseURL = DefaultBaseURL
	}
	if a.Timeout == 0 {
		a.Timeout = 15 * time.Second
	}
	if a.RateLimit.PerSecond > 0 && a.RateLimit.Burst == 0 {
		a.RateLimit.Burst = 1
	}
}

func applyBrowseDefaults(b *BrowseConfig) {
	if b.Debounce == 0 {
		b.Debounce = 500 * time.Millisecond
	}
}

func applySessionDefaults(s *SessionConfig) {
	if s.Backend == "" {
		s.Backend = SessionBackendFile
	}
	if s.Path == "" {
		s.Path = defaultSessionPath()
	}
	if s.Redis.Prefix == "" {
		s.Redis.Prefix = "clicklar:"
	}
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "clicklar", "session.yaml")
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "clicklar"
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyAuthDefaults(a *AuthConfig) {
	if a.TokenTTL == 0 {
		a.TokenTTL = 24 * time.Hour
	}
}

func validate(cfg *Config) error {
	var errs []error

	if err := validateBaseURL(cfg.API.BaseURL); err != nil {
		errs = append(errs, err)
	}
	if cfg.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api.timeout must not be negative"))
	}
	if cfg.API.RateLimit.PerSecond < 0 {
		errs = append(errs, fmt.Errorf("api.rate_limit.per_second must not be negative"))
	}
	if cfg.Browse.Debounce < 0 {
		errs = append(errs, fmt.Errorf("browse.debounce must not be negative"))
	}

	switch cfg.Session.Backend {
	case SessionBackendFile, SessionBackendMemory:
	case SessionBackendRedis:
		if cfg.Session.Redis.Addr == "" {
			errs = append(
				errs,
				fmt.Errorf("session.redis.addr is required when backend is redis"),
			)
		}
	default:
		errs = append(
			errs,
			fmt.Errorf(
				"session.backend must be one of: file, memory, redis (got %q)",
				cfg.Session.Backend,
			),
		)
	}

	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL == "" {
		errs = append(
			errs,
			fmt.Errorf("notifications.discord.webhook_url is required when discord is enabled"),
		)
	}

	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(
			errs,
			fmt.Errorf("logging.format must be one of: text, json (got %q)", cfg.Logging.Format),
		)
	}

	return errors.Join(errs...)
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("api.base_url is invalid: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL (got %q)", raw)
	}
	return nil
}

// ValidateServer checks the settings only the dev API needs.
func (c *Config) ValidateServer() error {
	var errs []error

	if c.Auth.JWTSecret == "" {
		errs = append(errs, fmt.Errorf("auth.jwt_secret is required"))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}
	if c.Auth.TokenTTL < time.Minute {
		errs = append(errs, fmt.Errorf("auth.token_ttl must be at least 1m"))
	}

	return errors.Join(errs...)
}
