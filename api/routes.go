package api

import (
	"errors"
	"fmt"

	"github.com/jonwraymond/catalogapi/auth"
)

// Supported API version tags. They appear in URLs as /api/v1.0/... and
// /api/v2.0/...; unversioned paths are served as Version1.
const (
	Version1 = "1.0"
	Version2 = "2.0"
)

// Versions lists every version tag the server exposes.
var Versions = []string{Version1, Version2}

// Sentinel errors for route table validation.
var (
	ErrUnroutableRoute = errors.New("api: route resolves to no version")
	ErrDuplicateRoute  = errors.New("api: duplicate route registration")
)

// Route binds a named operation to a method, path pattern, and policy.
type Route struct {
	Name    string
	Method  string
	Pattern string
	Policy  auth.RoutePolicy
}

var (
	anonymous = auth.RoutePolicy{Versions: Versions}
	authed    = auth.RoutePolicy{RequireAuth: true, Versions: Versions}
	admin     = auth.RoutePolicy{RequireAuth: true, RequiredRole: "admin", Versions: Versions}

	// Vendor writes exist in the schema from 1.0 but are only served on 2.0.
	adminV2 = auth.RoutePolicy{
		RequireAuth:   true,
		RequiredRole:  "admin",
		Versions:      Versions,
		MapToVersions: []string{Version2},
	}
)

// Table returns the static route table. It is constructed once at startup;
// nothing is discovered by reflection.
func Table() []Route {
	return []Route{
		{Name: "catalog.vendors.list", Method: "GET", Pattern: "/vendors/all", Policy: anonymous},
		{Name: "catalog.vendors.get", Method: "GET", Pattern: "/vendors/{id}", Policy: anonymous},
		{Name: "catalog.vendors.add", Method: "POST", Pattern: "/vendors", Policy: adminV2},
		{Name: "catalog.vendors.update", Method: "PUT", Pattern: "/vendors", Policy: adminV2},
		{Name: "catalog.vendors.delete", Method: "DELETE", Pattern: "/vendors/{id}", Policy: adminV2},

		{Name: "catalog.products.list", Method: "GET", Pattern: "/products/all", Policy: anonymous},
		{Name: "catalog.products.get", Method: "GET", Pattern: "/products/{id}", Policy: anonymous},
		{Name: "catalog.products.add", Method: "POST", Pattern: "/products", Policy: admin},
		{Name: "catalog.products.update", Method: "PUT", Pattern: "/products/{id}", Policy: admin},
		{Name: "catalog.products.delete", Method: "DELETE", Pattern: "/products/{id}", Policy: admin},

		{Name: "catalog.photos.list", Method: "GET", Pattern: "/products/{productId}/photo/all", Policy: anonymous},
		{Name: "catalog.photos.get", Method: "GET", Pattern: "/file/{id}", Policy: authed},
		{Name: "catalog.photos.add", Method: "POST", Pattern: "/products/{productId}/photo", Policy: authed},
		{Name: "catalog.photos.delete", Method: "DELETE", Pattern: "/file/{id}", Policy: admin},
	}
}

// ResolveVersions maps every version tag to the routes serving it.
//
// A route that resolves to zero versions is a configuration error, as is a
// second route claiming an already-taken (method, pattern) slot within a
// version. Both fail startup rather than silently shadowing handlers.
func ResolveVersions(routes []Route) (map[string][]Route, error) {
	byVersion := make(map[string][]Route, len(Versions))
	taken := make(map[string]string)

	for _, route := range routes {
		served := 0
		for _, tag := range Versions {
			if !route.Policy.ServesVersion(tag) {
				continue
			}
			served++

			slot := tag + " " + route.Method + " " + route.Pattern
			if prev, ok := taken[slot]; ok {
				return nil, fmt.Errorf("%w: %s claimed by %s and %s",
					ErrDuplicateRoute, slot, prev, route.Name)
			}
			taken[slot] = route.Name

			byVersion[tag] = append(byVersion[tag], route)
		}
		if served == 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnroutableRoute, route.Name)
		}
	}

	return byVersion, nil
}
