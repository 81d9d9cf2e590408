package auth

import "time"

// AuthMethod indicates how authentication was performed.
type AuthMethod string

const (
	AuthMethodNone     AuthMethod = "none"
	AuthMethodPassword AuthMethod = "password"
	AuthMethodBearer   AuthMethod = "bearer"
)

// Identity represents an authenticated principal.
//
// The role string is carried exactly as stored at credential time; no
// normalization is applied and comparisons are case-sensitive.
type Identity struct {
	// Subject is the authenticated username.
	Subject string

	// Role is the single coarse-grained permission label for this identity.
	Role string

	// Method indicates how authentication was performed.
	Method AuthMethod

	// Claims contains the raw claims from the token, unchanged.
	Claims map[string]any

	// ExpiresAt is when this identity expires.
	ExpiresAt time.Time

	// IssuedAt is when this identity was created.
	IssuedAt time.Time
}

// HasRole reports whether the identity carries exactly the given role.
func (id *Identity) HasRole(role string) bool {
	return id.Role == role
}

// IsExpired checks if the identity has expired.
func (id *Identity) IsExpired() bool {
	if id.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(id.ExpiresAt)
}
