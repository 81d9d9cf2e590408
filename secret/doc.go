// Package secret provides a small, dependency-light secret resolution layer.
//
// It supports:
//   - Strict environment expansion (see ExpandEnvStrict)
//   - Pluggable secret providers (see Provider + Registry)
//   - Resolving secret references in configuration values (see Resolver)
//
// References use the prefix "secretref:":
//   - Full value:  secretref:env:CATALOG_SIGNING_KEY
//   - Inline use:  Bearer secretref:env:CATALOG_SIGNING_KEY
//
// The catalog server uses this layer to keep the token signing key out of
// configuration files.
package secret
