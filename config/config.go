package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/catalogapi/auth"
	"github.com/jonwraymond/catalogapi/observe"
	"github.com/jonwraymond/catalogapi/secret"
)

// Sentinel errors for configuration loading.
var (
	ErrMissingSecret = errors.New("config: auth secret is required")
	ErrShortSecret   = errors.New("config: auth secret must be at least 32 bytes")
	ErrBadUser       = errors.New("config: invalid user entry")
)

// MinSecretLength is the minimum accepted signing key length in bytes.
const MinSecretLength = 32

// Config is the root server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Observe   ObserveConfig   `yaml:"observe"`
	Cache     CacheConfig     `yaml:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AuthConfig configures token issuance and validation.
type AuthConfig struct {
	Issuer   string        `yaml:"issuer"`
	Audience string        `yaml:"audience"`
	Secret   string        `yaml:"secret"`
	Lifetime time.Duration `yaml:"lifetime"`
	Users    []UserConfig  `yaml:"users"`
}

// UserConfig seeds one credential. Either PasswordHash (bcrypt) or Password
// (hashed at load, for development setups) must be set.
type UserConfig struct {
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`
	Role         string `yaml:"role"`
}

// ObserveConfig mirrors observe.Config in YAML form.
type ObserveConfig struct {
	ServiceName string        `yaml:"service_name"`
	Tracing     TracingConfig `yaml:"tracing"`
	Metrics     MetricsConfig `yaml:"metrics"`
	Logging     LoggingConfig `yaml:"logging"`
}

type TracingConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Exporter  string  `yaml:"exporter"`
	SamplePct float64 `yaml:"sample_pct"`
}

type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
}

// CacheConfig configures response caching for anonymous reads.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// RateLimitConfig configures the login rate limiter.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Auth: AuthConfig{
			Issuer:   auth.DefaultIssuer,
			Audience: auth.DefaultAudience,
			Lifetime: auth.DefaultLifetime,
		},
		Observe: ObserveConfig{
			ServiceName: "catalogd",
			Logging:     LoggingConfig{Enabled: true, Level: "info"},
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     1,
			Burst:   5,
		},
	}
}

// Load reads, resolves, and validates the configuration at path.
func Load(ctx context.Context, path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(ctx, raw)
}

// Parse decodes YAML configuration, applying defaults and resolving the
// signing secret.
func Parse(ctx context.Context, raw []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	resolver := secret.NewResolver(true, secret.NewEnvProvider())
	resolved, err := resolver.ResolveValue(ctx, cfg.Auth.Secret)
	if err != nil {
		return nil, fmt.Errorf("config: resolve auth secret: %w", err)
	}
	cfg.Auth.Secret = resolved

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return ErrMissingSecret
	}
	if len(c.Auth.Secret) < MinSecretLength {
		return ErrShortSecret
	}
	if c.Auth.Lifetime <= 0 {
		return fmt.Errorf("config: auth lifetime must be positive")
	}

	seen := make(map[string]bool, len(c.Auth.Users))
	for i, u := range c.Auth.Users {
		if strings.TrimSpace(u.Username) == "" {
			return fmt.Errorf("%w: users[%d] has no username", ErrBadUser, i)
		}
		if u.Password == "" && u.PasswordHash == "" {
			return fmt.Errorf("%w: user %q has neither password nor password_hash", ErrBadUser, u.Username)
		}
		if seen[u.Username] {
			return fmt.Errorf("%w: user %q listed twice", ErrBadUser, u.Username)
		}
		seen[u.Username] = true
	}

	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("config: cache ttl must be positive when caching is enabled")
	}
	if c.RateLimit.Enabled && c.RateLimit.RPS <= 0 {
		return fmt.Errorf("config: rate limit rps must be positive when enabled")
	}
	return nil
}

// Credentials builds the seeded credential set, hashing plaintext passwords.
func (c *Config) Credentials() ([]auth.Credential, error) {
	out := make([]auth.Credential, 0, len(c.Auth.Users))
	for _, u := range c.Auth.Users {
		hash := u.PasswordHash
		if hash == "" {
			h, err := auth.HashPassword(u.Password)
			if err != nil {
				return nil, fmt.Errorf("config: hash password for %q: %w", u.Username, err)
			}
			hash = h
		}
		out = append(out, auth.Credential{
			Username:     u.Username,
			PasswordHash: hash,
			Role:         u.Role,
		})
	}
	return out, nil
}

// IssuerConfig converts to the auth package's issuer/validator config.
func (c *Config) IssuerConfig() auth.Config {
	return auth.Config{
		Issuer:   c.Auth.Issuer,
		Audience: c.Auth.Audience,
		Secret:   []byte(c.Auth.Secret),
		Lifetime: c.Auth.Lifetime,
	}
}

// ObserverConfig converts to the observe package's config.
func (c *Config) ObserverConfig(version string) observe.Config {
	return observe.Config{
		ServiceName: c.Observe.ServiceName,
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   c.Observe.Tracing.Enabled,
			Exporter:  c.Observe.Tracing.Exporter,
			SamplePct: c.Observe.Tracing.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.Observe.Metrics.Enabled,
			Exporter: c.Observe.Metrics.Exporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: c.Observe.Logging.Enabled,
			Level:   c.Observe.Logging.Level,
		},
	}
}
