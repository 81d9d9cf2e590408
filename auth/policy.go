package auth

import (
	"context"
	"fmt"
)

// RoutePolicy declares the authentication requirements and API-version
// applicability of a single route. Policies are attached to route
// definitions at startup and are static for the process lifetime.
type RoutePolicy struct {
	// RequireAuth requires a valid authenticated identity.
	RequireAuth bool

	// RequiredRole, when set, additionally requires the identity to carry
	// exactly this role. Implies RequireAuth.
	RequiredRole string

	// Versions is the set of API version tags the route supports.
	Versions []string

	// MapToVersions optionally narrows Versions further. Empty means no
	// narrowing.
	MapToVersions []string
}

// ServesVersion reports whether the route serves the given version tag:
// the tag must be in Versions, and in MapToVersions when that list is set.
func (p RoutePolicy) ServesVersion(tag string) bool {
	if !containsTag(p.Versions, tag) {
		return false
	}
	if len(p.MapToVersions) == 0 {
		return true
	}
	return containsTag(p.MapToVersions, tag)
}

func containsTag(tags []string, target string) bool {
	for _, t := range tags {
		if t == target {
			return true
		}
	}
	return false
}

// AuthzRequest contains the information needed for an authorization decision.
type AuthzRequest struct {
	// Subject is the authenticated identity, or nil when the request carried
	// no valid token.
	Subject *Identity

	// Route names the route being accessed.
	Route string

	// Policy is the route's declared policy.
	Policy RoutePolicy
}

// AuthzError represents an authorization failure.
type AuthzError struct {
	// Subject is the identity that was denied, empty when unauthenticated.
	Subject string

	// Route is the route that was denied access to.
	Route string

	// Reason explains why access was denied.
	Reason string

	// Cause is ErrUnauthenticated or ErrForbidden.
	Cause error
}

// Error returns the error message.
func (e *AuthzError) Error() string {
	return fmt.Sprintf("authorization denied: subject=%q route=%q reason=%q",
		e.Subject, e.Route, e.Reason)
}

// Unwrap returns the cause error for errors.Is support.
func (e *AuthzError) Unwrap() error {
	return e.Cause
}

// Authorizer determines if an identity is allowed to access a route.
type Authorizer interface {
	// Authorize checks if the request is permitted.
	// Returns nil if authorized, or an error (typically *AuthzError) if denied.
	Authorize(ctx context.Context, req *AuthzRequest) error

	// Name returns a unique identifier for this authorizer.
	Name() string
}

// PolicyAuthorizer enforces route policies: anonymous routes always pass,
// protected routes require an identity, role-bound routes require an exact
// case-sensitive role match. The decision is deterministic given the same
// policy and identity.
type PolicyAuthorizer struct{}

// NewPolicyAuthorizer creates a policy authorizer.
func NewPolicyAuthorizer() *PolicyAuthorizer {
	return &PolicyAuthorizer{}
}

// Name returns "policy".
func (a *PolicyAuthorizer) Name() string {
	return "policy"
}

// Authorize applies the route policy to the request's identity.
func (a *PolicyAuthorizer) Authorize(_ context.Context, req *AuthzRequest) error {
	if !req.Policy.RequireAuth {
		return nil
	}

	if req.Subject == nil {
		return &AuthzError{
			Route:  req.Route,
			Reason: "no authenticated identity",
			Cause:  ErrUnauthenticated,
		}
	}

	if required := req.Policy.RequiredRole; required != "" && req.Subject.Role != required {
		return &AuthzError{
			Subject: req.Subject.Subject,
			Route:   req.Route,
			Reason:  fmt.Sprintf("role %q does not satisfy required role %q", req.Subject.Role, required),
			Cause:   ErrForbidden,
		}
	}

	return nil
}

// Ensure PolicyAuthorizer implements Authorizer
var _ Authorizer = (*PolicyAuthorizer)(nil)
