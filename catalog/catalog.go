package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for catalog operations.
var (
	ErrNotFound  = errors.New("catalog: not found")
	ErrNameTaken = errors.New("catalog: name already taken")
	ErrInvalid   = errors.New("catalog: invalid entity")
)

// Vendor is a supplier of products.
type Vendor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// Validate checks the vendor's fields.
func (v Vendor) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("%w: vendor name is required", ErrInvalid)
	}
	return nil
}

// Product is a catalog item offered by a vendor.
type Product struct {
	ID          int64   `json:"id"`
	VendorID    int64   `json:"vendorId"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}

// Validate checks the product's fields.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", ErrInvalid)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: product price must not be negative", ErrInvalid)
	}
	return nil
}

// Photo is an image attached to a product.
type Photo struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"productId"`
	Description string `json:"description,omitempty"`
	Extension   string `json:"extension"`
	Content     []byte `json:"content"`
}

// Validate checks the photo's fields.
func (p Photo) Validate() error {
	if len(p.Content) == 0 {
		return fmt.Errorf("%w: photo content is required", ErrInvalid)
	}
	return nil
}

// ProductFilter narrows and pages a product listing.
type ProductFilter struct {
	// Name filters by substring match on the product name.
	Name string

	// MinPrice and MaxPrice bound the price; zero disables the bound.
	MinPrice float64
	MaxPrice float64

	// Start skips the first Start matching products; Count caps the number
	// returned. Zero disables each.
	Start int
	Count int
}

// Matches reports whether the product passes the name and price filters.
func (f ProductFilter) Matches(p Product) bool {
	if f.Name != "" && !strings.Contains(p.Name, f.Name) {
		return false
	}
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	return true
}
