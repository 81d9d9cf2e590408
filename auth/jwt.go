package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
)

// BearerAuthenticator validates bearer tokens produced by the Issuer.
//
// Signature, issuer, audience, and validity window are all checked; once they
// pass, the claim set is trusted verbatim and returned as the identity.
type BearerAuthenticator struct {
	config Config
}

// NewBearerAuthenticator creates a bearer token validator sharing the token
// parameters of the issuer.
func NewBearerAuthenticator(config Config) *BearerAuthenticator {
	return &BearerAuthenticator{config: config.withDefaults()}
}

// Name returns "bearer".
func (a *BearerAuthenticator) Name() string {
	return "bearer"
}

// Supports returns true if the request carries a bearer token.
func (a *BearerAuthenticator) Supports(_ context.Context, req *AuthRequest) bool {
	return strings.HasPrefix(req.GetHeader(authorizationHeader), bearerPrefix)
}

// Authenticate validates the bearer token.
func (a *BearerAuthenticator) Authenticate(_ context.Context, req *AuthRequest) (*AuthResult, error) {
	header := req.GetHeader(authorizationHeader)
	if header == "" {
		return AuthFailure(ErrMissingCredentials, "bearer"), nil
	}

	tokenString := strings.TrimPrefix(header, bearerPrefix)
	if tokenString == header {
		return AuthFailure(ErrMissingCredentials, "bearer"), nil
	}
	tokenString = strings.TrimSpace(tokenString)

	token, err := jwt.Parse(tokenString,
		func(_ *jwt.Token) (any, error) { return a.config.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return AuthFailure(classifyParseError(err), "bearer"), nil
	}
	if !token.Valid {
		return AuthFailure(ErrInvalidCredentials, "bearer"), nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return AuthFailure(ErrTokenMalformed, "bearer"), nil
	}

	if iss, ok := claims["iss"].(string); !ok || iss != a.config.Issuer {
		return AuthFailure(ErrIssuerMismatch, "bearer"), nil
	}
	if !containsAudience(audiences(claims), a.config.Audience) {
		return AuthFailure(ErrAudienceMismatch, "bearer"), nil
	}

	return AuthSuccess(buildIdentity(claims)), nil
}

// classifyParseError maps golang-jwt parse failures onto the sentinel
// taxonomy. Signature and time-window failures are distinguished so callers
// can log a precise rejection reason; everything else is malformed.
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrTokenNotYetValid
	default:
		return ErrTokenMalformed
	}
}

func audiences(claims jwt.MapClaims) []string {
	switch v := claims["aud"].(type) {
	case string:
		return []string{v}
	case []any:
		result := make([]string, 0, len(v))
		for _, a := range v {
			if s, ok := a.(string); ok {
				result = append(result, s)
			}
		}
		return result
	default:
		return nil
	}
}

func containsAudience(audiences []string, target string) bool {
	for _, aud := range audiences {
		if aud == target {
			return true
		}
	}
	return false
}

func buildIdentity(claims jwt.MapClaims) *Identity {
	identity := &Identity{
		Method: AuthMethodBearer,
		Claims: make(map[string]any, len(claims)),
	}

	for k, v := range claims {
		identity.Claims[k] = v
	}

	if sub, ok := claims["sub"].(string); ok {
		identity.Subject = sub
	}
	if role, ok := claims[RoleClaim].(string); ok {
		identity.Role = role
	}
	if exp, ok := claims["exp"].(float64); ok {
		identity.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if iat, ok := claims["iat"].(float64); ok {
		identity.IssuedAt = time.Unix(int64(iat), 0)
	}

	return identity
}

// Ensure BearerAuthenticator implements Authenticator
var _ Authenticator = (*BearerAuthenticator)(nil)
