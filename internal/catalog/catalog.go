// Package catalog holds the read-only product list of the storefront.
// This is the in-memory catalog for MVP.
// Future: Can be replaced with a storefront-backed catalog.
package catalog

import (
	"fmt"

	"github.com/trymirror/scanflow/internal/domain"
)

// Registry holds all catalog products in display order.
type Registry struct {
	order    []string
	products map[string]domain.Product
}

// NewRegistry creates a registry with the default product list.
func NewRegistry() *Registry {
	r := &Registry{
		products: make(map[string]domain.Product),
	}

	for _, p := range defaultProducts() {
		r.add(p)
	}

	return r
}

// NewRegistryWithProducts creates a registry with custom products (for testing).
func NewRegistryWithProducts(products ...domain.Product) *Registry {
	r := &Registry{
		products: make(map[string]domain.Product),
	}
	for _, p := range products {
		r.add(p)
	}
	return r
}

func (r *Registry) add(p domain.Product) {
	if _, ok := r.products[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.products[p.ID] = p
}

// GetAll returns all products in display order.
func (r *Registry) GetAll() []domain.Product {
	result := make([]domain.Product, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.products[id])
	}
	return result
}

// GetByID returns the product with the given id.
func (r *Registry) GetByID(id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product not found: %s", id)
	}
	return &p, nil
}

// Ensure Registry implements domain.Catalog.
var _ domain.Catalog = (*Registry)(nil)
