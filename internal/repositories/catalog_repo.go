package repositories

import (
	"errors"

	"katalog/internal/models"
)

// ErrProductNotFound is returned when no product in the catalog has the requested ID.
var ErrProductNotFound = errors.New("product not found")

// CatalogRepository defines the storage of one catalog's ordered product collection.
// GetAll returns products in insertion order.
type CatalogRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id int) (*models.Product, error)
	// LastID returns the highest ID ever stored in the catalog, deleted products included,
	// or 0 for a catalog that never held a product.
	LastID() (int, error)
	Append(product models.Product) error
	Update(product models.Product) error
	Delete(id int) error
	// Purge drops everything the repository holds for the catalog.
	Purge() error
}
