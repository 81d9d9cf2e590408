// Package catalog defines the vendor/product/photo domain model and an
// in-memory store over it.
package catalog
