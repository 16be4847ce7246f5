package catalog

import "github.com/trymirror/scanflow/internal/domain"

// defaultProducts returns the seeded storefront catalog.
func defaultProducts() []domain.Product {
	return []domain.Product{
		{
			ID:       "denim-jacket",
			Name:     "Blue Denim Jacket",
			Price:    89.99,
			ImageRef: "/static/uploads/sample_jacket.jpg",
		},
		{
			ID:       "cotton-tshirt",
			Name:     "White Cotton T-Shirt",
			Price:    24.99,
			ImageRef: "/static/uploads/sample_tshirt.jpg",
		},
		{
			ID:       "formal-dress",
			Name:     "Black Formal Dress",
			Price:    129.99,
			ImageRef: "/static/uploads/sample_dress.jpg",
		},
	}
}
