package auth

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Credential is a stored username/password/role record.
//
// Passwords are stored as bcrypt hashes, never in plaintext. The role is an
// opaque label; it is compared byte-for-byte at authorization time.
type Credential struct {
	// Username is the unique login name.
	Username string

	// PasswordHash is the bcrypt hash of the password.
	PasswordHash string

	// Role is the permission label granted to this credential.
	Role string
}

// VerifyPassword reports whether the given plaintext password matches the
// stored hash. bcrypt comparison is constant-time by construction.
func (c *Credential) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hash), nil
}

// CredentialStore provides lookup of stored credentials.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: Lookup returns (nil, nil) when the username is unknown;
//     (nil, error) only for internal store failures.
type CredentialStore interface {
	// Lookup retrieves the credential for a username.
	Lookup(ctx context.Context, username string) (*Credential, error)
}

// MemoryCredentialStore is an in-memory credential store.
type MemoryCredentialStore struct {
	mu    sync.RWMutex
	byKey map[string]*Credential
}

// NewMemoryCredentialStore creates a new in-memory credential store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{
		byKey: make(map[string]*Credential),
	}
}

// Lookup retrieves the credential for a username.
func (s *MemoryCredentialStore) Lookup(_ context.Context, username string) (*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byKey[username], nil
}

// Add adds a credential to the store.
func (s *MemoryCredentialStore) Add(cred *Credential) error {
	if cred == nil || cred.Username == "" {
		return fmt.Errorf("auth: invalid credential")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byKey[cred.Username]; exists {
		return fmt.Errorf("auth: credential %q already registered", cred.Username)
	}
	s.byKey[cred.Username] = cred
	return nil
}

// Len returns the number of stored credentials.
func (s *MemoryCredentialStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}

// Ensure MemoryCredentialStore implements CredentialStore
var _ CredentialStore = (*MemoryCredentialStore)(nil)
