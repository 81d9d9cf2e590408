package auth

import (
	"errors"
	"net/http"
)

// Guard returns HTTP middleware enforcing the given route policy.
//
// Token validation runs only when the policy requires authentication; on an
// anonymous route the request context stays unauthenticated and no token is
// inspected. The authorization decision is made exactly once, before the
// handler executes. Denials map to 401 (no valid identity) or 403 (identity
// present, wrong role) with a plain-text body.
func Guard(authn Authenticator, authz Authorizer, route string, policy RoutePolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var subject *Identity
			if policy.RequireAuth {
				result, err := authn.Authenticate(ctx, &AuthRequest{Headers: r.Header})
				if err != nil {
					http.Error(w, "authentication unavailable", http.StatusInternalServerError)
					return
				}
				if result.Authenticated {
					subject = result.Identity
					ctx = WithIdentity(ctx, subject)
				}
			}

			if err := authz.Authorize(ctx, &AuthzRequest{Subject: subject, Route: route, Policy: policy}); err != nil {
				writeDenial(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeDenial(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrForbidden) {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	w.Header().Set("WWW-Authenticate", `Bearer realm="catalog"`)
	http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
}
