package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token parameters.
const (
	DefaultIssuer   = "MyAuthServer"
	DefaultAudience = "Demo Web API/"
	DefaultLifetime = 20 * time.Minute
)

// RoleClaim is the claim carrying the identity's role.
const RoleClaim = "role"

// Config holds the shared token parameters for the issuer and the bearer
// authenticator. It is an explicit immutable value injected at construction;
// there is no ambient process-wide state.
type Config struct {
	// Issuer is the iss claim written and expected on every token.
	Issuer string

	// Audience is the aud claim written and expected on every token.
	Audience string

	// Secret is the HMAC-SHA256 signing key.
	Secret []byte

	// Lifetime is how long issued tokens remain valid.
	Lifetime time.Duration
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if len(c.Secret) == 0 {
		return fmt.Errorf("auth: signing secret is required")
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Issuer == "" {
		c.Issuer = DefaultIssuer
	}
	if c.Audience == "" {
		c.Audience = DefaultAudience
	}
	if c.Lifetime == 0 {
		c.Lifetime = DefaultLifetime
	}
	return c
}

// Issuer verifies credentials and produces signed, time-bounded tokens.
// It keeps no record of issued tokens; tokens are stateless bearer tokens.
type Issuer struct {
	config Config
	store  CredentialStore
}

// NewIssuer creates a token issuer backed by the given credential store.
func NewIssuer(config Config, store CredentialStore) *Issuer {
	return &Issuer{
		config: config.withDefaults(),
		store:  store,
	}
}

// Issue verifies the username/password pair and returns a signed token.
//
// The failure mode is deliberately uniform: an unknown username, a wrong
// password, and an empty field all yield ErrInvalidCredentials, so callers
// cannot learn which part was wrong.
func (i *Issuer) Issue(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	cred, err := i.store.Lookup(ctx, username)
	if err != nil {
		return "", fmt.Errorf("auth: credential lookup: %w", err)
	}
	if cred == nil || !cred.VerifyPassword(password) {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":     i.config.Issuer,
		"aud":     i.config.Audience,
		"sub":     cred.Username,
		RoleClaim: cred.Role,
		"iat":     now.Unix(),
		"nbf":     now.Unix(),
		"exp":     now.Add(i.config.Lifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.config.Secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}
