package config

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/catalogapi/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef" // 32 bytes

func TestParse_Defaults(t *testing.T) {
	raw := []byte("auth:\n  secret: " + testSecret + "\n")

	cfg, err := Parse(context.Background(), raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Auth.Issuer != auth.DefaultIssuer {
		t.Errorf("issuer = %q, want %q", cfg.Auth.Issuer, auth.DefaultIssuer)
	}
	if cfg.Auth.Audience != auth.DefaultAudience {
		t.Errorf("audience = %q, want %q", cfg.Auth.Audience, auth.DefaultAudience)
	}
	if cfg.Auth.Lifetime != 20*time.Minute {
		t.Errorf("lifetime = %v, want 20m", cfg.Auth.Lifetime)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL != 30*time.Second {
		t.Errorf("cache = %+v", cfg.Cache)
	}
}

func TestParse_FullFile(t *testing.T) {
	raw := []byte(`
server:
  addr: ":9090"
  read_timeout: 5s
auth:
  issuer: MyAuthServer
  audience: "Demo Web API/"
  secret: ` + testSecret + `
  lifetime: 20m
  users:
    - username: r2d2
      password: "010101"
      role: admin
    - username: dark_sidius
      password: "123"
      role: Default
observe:
  service_name: catalogd
  logging:
    enabled: true
    level: debug
rate_limit:
  enabled: true
  rps: 2
  burst: 10
`)

	cfg, err := Parse(context.Background(), raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if len(cfg.Auth.Users) != 2 {
		t.Fatalf("users = %d, want 2", len(cfg.Auth.Users))
	}
	if cfg.Auth.Users[0].Role != "admin" {
		t.Errorf("r2d2 role = %q", cfg.Auth.Users[0].Role)
	}
	if cfg.RateLimit.Burst != 10 {
		t.Errorf("burst = %d", cfg.RateLimit.Burst)
	}
	if cfg.Observe.Logging.Level != "debug" {
		t.Errorf("log level = %q", cfg.Observe.Logging.Level)
	}
}

func TestParse_SecretRef(t *testing.T) {
	t.Setenv("CATALOG_SIGNING_KEY", testSecret)

	raw := []byte("auth:\n  secret: secretref:env:CATALOG_SIGNING_KEY\n")
	cfg, err := Parse(context.Background(), raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Auth.Secret != testSecret {
		t.Errorf("secret was not resolved from the environment")
	}

	t.Run("unresolvable ref fails", func(t *testing.T) {
		bad := []byte("auth:\n  secret: secretref:env:CATALOG_UNSET_KEY\n")
		if _, err := Parse(context.Background(), bad); err == nil {
			t.Error("Parse() succeeded with unresolvable secret")
		}
	})
}

func TestValidate(t *testing.T) {
	base := func() Config {
		cfg := Default()
		cfg.Auth.Secret = testSecret
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"missing secret", func(c *Config) { c.Auth.Secret = "" }, ErrMissingSecret},
		{"short secret", func(c *Config) { c.Auth.Secret = "short" }, ErrShortSecret},
		{
			"user without username",
			func(c *Config) { c.Auth.Users = []UserConfig{{Password: "x"}} },
			ErrBadUser,
		},
		{
			"user without password",
			func(c *Config) { c.Auth.Users = []UserConfig{{Username: "r2d2"}} },
			ErrBadUser,
		},
		{
			"duplicate user",
			func(c *Config) {
				c.Auth.Users = []UserConfig{
					{Username: "r2d2", Password: "a"},
					{Username: "r2d2", Password: "b"},
				}
			},
			ErrBadUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCredentials(t *testing.T) {
	cfg := Default()
	cfg.Auth.Secret = testSecret
	cfg.Auth.Users = []UserConfig{
		{Username: "r2d2", Password: "010101", Role: "admin"},
	}

	creds, err := cfg.Credentials()
	if err != nil {
		t.Fatalf("Credentials() error = %v", err)
	}
	if len(creds) != 1 {
		t.Fatalf("got %d credentials, want 1", len(creds))
	}

	cred := creds[0]
	if cred.Username != "r2d2" || cred.Role != "admin" {
		t.Errorf("credential = %+v", cred)
	}
	if strings.Contains(cred.PasswordHash, "010101") {
		t.Error("password stored in plaintext")
	}
	if !cred.VerifyPassword("010101") {
		t.Error("hashed password does not verify")
	}
	if cred.VerifyPassword("123") {
		t.Error("wrong password verified")
	}
}

func TestIssuerConfig(t *testing.T) {
	cfg := Default()
	cfg.Auth.Secret = testSecret

	ic := cfg.IssuerConfig()
	if ic.Issuer != auth.DefaultIssuer || string(ic.Secret) != testSecret {
		t.Errorf("IssuerConfig() = %+v", ic)
	}
	if err := ic.Validate(); err != nil {
		t.Errorf("IssuerConfig().Validate() error = %v", err)
	}
}
