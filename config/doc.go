// Package config loads and validates the catalog server configuration.
//
// Configuration is a single YAML file. String values may reference secrets
// via the secret package ("secretref:env:CATALOG_SIGNING_KEY") or environment
// variables ("${PORT}"); both are resolved at load time so the rest of the
// program only ever sees final values.
package config
