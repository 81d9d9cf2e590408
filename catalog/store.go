package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Store provides access to the catalog.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: lookups return ErrNotFound (possibly wrapped) when the entity
//     does not exist; writes return ErrNameTaken on duplicate names and
//     ErrInvalid on validation failure.
type Store interface {
	ListVendors(ctx context.Context) ([]Vendor, error)
	GetVendor(ctx context.Context, id int64) (*Vendor, error)
	AddVendor(ctx context.Context, v Vendor) (*Vendor, error)
	UpdateVendor(ctx context.Context, v Vendor) (*Vendor, error)
	DeleteVendor(ctx context.Context, id int64) error

	ListProducts(ctx context.Context, f ProductFilter) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	AddProduct(ctx context.Context, p Product) (*Product, error)
	UpdateProduct(ctx context.Context, p Product) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	ListPhotos(ctx context.Context, productID int64) ([]Photo, error)
	GetPhoto(ctx context.Context, id int64) (*Photo, error)
	AddPhoto(ctx context.Context, p Photo) (*Photo, error)
	DeletePhoto(ctx context.Context, id int64) error
}

// MemoryStore is an in-memory catalog store.
//
// IDs are assigned as highest existing id + 1, starting at 1. Vendor and
// product names are unique case-insensitively.
type MemoryStore struct {
	mu       sync.RWMutex
	vendors  map[int64]Vendor
	products map[int64]Product
	photos   map[int64]Photo
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		vendors:  make(map[int64]Vendor),
		products: make(map[int64]Product),
		photos:   make(map[int64]Photo),
	}
}

// ListVendors returns all vendors ordered by id.
func (s *MemoryStore) ListVendors(_ context.Context) ([]Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Vendor, 0, len(s.vendors))
	for _, v := range s.vendors {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetVendor returns the vendor with the given id.
func (s *MemoryStore) GetVendor(_ context.Context, id int64) (*Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vendors[id]
	if !ok {
		return nil, fmt.Errorf("vendor %d: %w", id, ErrNotFound)
	}
	return &v, nil
}

// AddVendor validates and stores a new vendor, assigning its id.
func (s *MemoryStore) AddVendor(_ context.Context, v Vendor) (*Vendor, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vendorNameTakenLocked(v.Name, 0) {
		return nil, fmt.Errorf("vendor %q: %w", v.Name, ErrNameTaken)
	}

	v.ID = nextID(vendorIDsLocked(s.vendors))
	s.vendors[v.ID] = v
	return &v, nil
}

// UpdateVendor validates and replaces an existing vendor.
func (s *MemoryStore) UpdateVendor(_ context.Context, v Vendor) (*Vendor, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vendors[v.ID]; !ok {
		return nil, fmt.Errorf("vendor %d: %w", v.ID, ErrNotFound)
	}
	if s.vendorNameTakenLocked(v.Name, v.ID) {
		return nil, fmt.Errorf("vendor %q: %w", v.Name, ErrNameTaken)
	}

	s.vendors[v.ID] = v
	return &v, nil
}

// DeleteVendor removes the vendor with the given id.
func (s *MemoryStore) DeleteVendor(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vendors[id]; !ok {
		return fmt.Errorf("vendor %d: %w", id, ErrNotFound)
	}
	delete(s.vendors, id)
	return nil
}

// ListProducts returns products matching the filter, ordered by id, with
// Start/Count paging applied after filtering.
func (s *MemoryStore) ListProducts(_ context.Context, f ProductFilter) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if f.Start > 0 {
		if f.Start >= len(out) {
			return []Product{}, nil
		}
		out = out[f.Start:]
	}
	if f.Count > 0 && f.Count < len(out) {
		out = out[:f.Count]
	}
	return out, nil
}

// GetProduct returns the product with the given id.
func (s *MemoryStore) GetProduct(_ context.Context, id int64) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return &p, nil
}

// AddProduct validates and stores a new product. The referenced vendor must
// exist.
func (s *MemoryStore) AddProduct(_ context.Context, p Product) (*Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vendors[p.VendorID]; !ok {
		return nil, fmt.Errorf("vendor %d: %w", p.VendorID, ErrNotFound)
	}
	if s.productNameTakenLocked(p.Name, 0) {
		return nil, fmt.Errorf("product %q: %w", p.Name, ErrNameTaken)
	}

	p.ID = nextID(productIDsLocked(s.products))
	s.products[p.ID] = p
	return &p, nil
}

// UpdateProduct validates and replaces an existing product.
func (s *MemoryStore) UpdateProduct(_ context.Context, p Product) (*Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[p.ID]; !ok {
		return nil, fmt.Errorf("product %d: %w", p.ID, ErrNotFound)
	}
	if s.productNameTakenLocked(p.Name, p.ID) {
		return nil, fmt.Errorf("product %q: %w", p.Name, ErrNameTaken)
	}

	s.products[p.ID] = p
	return &p, nil
}

// DeleteProduct removes the product with the given id.
func (s *MemoryStore) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	delete(s.products, id)
	return nil
}

// ListPhotos returns all photos of a product ordered by id.
func (s *MemoryStore) ListPhotos(_ context.Context, productID int64) ([]Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Photo, 0)
	for _, p := range s.photos {
		if p.ProductID == productID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetPhoto returns the photo with the given id.
func (s *MemoryStore) GetPhoto(_ context.Context, id int64) (*Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.photos[id]
	if !ok {
		return nil, fmt.Errorf("photo %d: %w", id, ErrNotFound)
	}
	return &p, nil
}

// AddPhoto validates and stores a new photo. The referenced product must
// exist.
func (s *MemoryStore) AddPhoto(_ context.Context, p Photo) (*Photo, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[p.ProductID]; !ok {
		return nil, fmt.Errorf("product %d: %w", p.ProductID, ErrNotFound)
	}

	p.ID = nextID(photoIDsLocked(s.photos))
	s.photos[p.ID] = p
	return &p, nil
}

// DeletePhoto removes the photo with the given id.
func (s *MemoryStore) DeletePhoto(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.photos[id]; !ok {
		return fmt.Errorf("photo %d: %w", id, ErrNotFound)
	}
	delete(s.photos, id)
	return nil
}

func (s *MemoryStore) vendorNameTakenLocked(name string, exceptID int64) bool {
	for _, v := range s.vendors {
		if v.ID != exceptID && strings.EqualFold(v.Name, name) {
			return true
		}
	}
	return false
}

func (s *MemoryStore) productNameTakenLocked(name string, exceptID int64) bool {
	for _, p := range s.products {
		if p.ID != exceptID && strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

func vendorIDsLocked(m map[int64]Vendor) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids
}

func productIDsLocked(m map[int64]Product) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids
}

func photoIDsLocked(m map[int64]Photo) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids
}

// nextID returns highest id + 1, or 1 for an empty set.
func nextID(ids []int64) int64 {
	var max int64
	for _, id := range ids {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
