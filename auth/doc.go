// Package auth implements the request authentication and authorization
// pipeline for the catalog API: credential verification, signed bearer
// token issuance, token validation, and per-route policy enforcement.
package auth
