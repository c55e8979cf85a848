package repositories

import (
	"fmt"
	"sync"

	"katalog/internal/models"
)

var _ CatalogRepository = (*MemoryCatalogRepository)(nil)

// MemoryCatalogRepository is an in-memory implementation of CatalogRepository.
type MemoryCatalogRepository struct {
	products []models.Product
	lastID   int
	mu       sync.RWMutex
}

// NewMemoryCatalogRepository creates a new, empty MemoryCatalogRepository.
func NewMemoryCatalogRepository() *MemoryCatalogRepository {
	return &MemoryCatalogRepository{
		products: make([]models.Product, 0),
	}
}

// GetAll returns a copy of all products in insertion order.
func (r *MemoryCatalogRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, len(r.products))
	copy(productList, r.products)
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MemoryCatalogRepository) GetByID(id int) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	product := r.products[i]
	return &product, nil
}

// LastID returns the highest ID ever appended.
func (r *MemoryCatalogRepository) LastID() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lastID, nil
}

// Append adds a product to the end of the collection.
func (r *MemoryCatalogRepository) Append(product models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(product.ID) >= 0 {
		return fmt.Errorf("product with ID %d already exists", product.ID)
	}
	r.products = append(r.products, product)
	if product.ID > r.lastID {
		r.lastID = product.ID
	}
	return nil
}

// Update replaces an existing product in place.
func (r *MemoryCatalogRepository) Update(product models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(product.ID)
	if i < 0 {
		return fmt.Errorf("product with ID %d not updated: %w", product.ID, ErrProductNotFound)
	}
	r.products[i] = product
	return nil
}

// Delete removes a product by its ID, keeping the order of the others.
func (r *MemoryCatalogRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("product with ID %d not deleted: %w", id, ErrProductNotFound)
	}
	r.products = append(r.products[:i], r.products[i+1:]...)
	return nil
}

// Purge empties the collection and forgets the assigned IDs.
func (r *MemoryCatalogRepository) Purge() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = r.products[:0]
	r.lastID = 0
	return nil
}

// indexOf must be called with r.mu held.
func (r *MemoryCatalogRepository) indexOf(id int) int {
	for i := range r.products {
		if r.products[i].ID == id {
			return i
		}
	}
	return -1
}
