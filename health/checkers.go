package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/catalogapi/auth"
	"github.com/jonwraymond/catalogapi/catalog"
)

// StoreChecker reports on the catalog store.
type StoreChecker struct {
	store catalog.Store
}

// NewStoreChecker creates a checker backed by the given store.
func NewStoreChecker(store catalog.Store) *StoreChecker {
	return &StoreChecker{store: store}
}

func (c *StoreChecker) Name() string { return "store" }

// Check verifies the store answers a listing query.
func (c *StoreChecker) Check(ctx context.Context) Result {
	vendors, err := c.store.ListVendors(ctx)
	if err != nil {
		return Unhealthy("store query failed", err)
	}

	products, err := c.store.ListProducts(ctx, catalog.ProductFilter{})
	if err != nil {
		return Unhealthy("store query failed", err)
	}

	return Healthy("store reachable").WithDetails(map[string]any{
		"vendors":  len(vendors),
		"products": len(products),
	})
}

// CredentialChecker reports on the credential store used for token issuance.
// A server with no credentials can never issue tokens, which is reported as
// degraded rather than unhealthy: anonymous routes still work.
type CredentialChecker struct {
	store *auth.MemoryCredentialStore
}

// NewCredentialChecker creates a checker backed by the given credential store.
func NewCredentialChecker(store *auth.MemoryCredentialStore) *CredentialChecker {
	return &CredentialChecker{store: store}
}

func (c *CredentialChecker) Name() string { return "credentials" }

func (c *CredentialChecker) Check(ctx context.Context) Result {
	n := c.store.Len()
	if n == 0 {
		return Degraded("no credentials loaded")
	}
	return Healthy(fmt.Sprintf("%d credentials loaded", n)).WithDetails(map[string]any{
		"users": n,
	})
}

var (
	_ Checker = (*StoreChecker)(nil)
	_ Checker = (*CredentialChecker)(nil)
)
