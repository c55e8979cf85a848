package services

import (
	"errors"
	"fmt"
	"time"

	"katalog/internal/models"
	"katalog/internal/repositories"

	"go.uber.org/zap"
)

// EventPublisher delivers catalog change events to interested parties.
type EventPublisher interface {
	PublishCatalogEvent(event models.CatalogEvent) error
}

// CatalogService owns one catalog: its ordered products and the ID assignment rule.
// It is the only component that mutates the collection.
type CatalogService struct {
	catalogID string
	repo      repositories.CatalogRepository
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewCatalogService creates a new CatalogService. publisher may be nil.
func NewCatalogService(catalogID string, repo repositories.CatalogRepository, publisher EventPublisher, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		catalogID: catalogID,
		repo:      repo,
		publisher: publisher,
		logger:    logger.With(zap.String("catalog_id", catalogID)),
		now:       time.Now,
	}
}

// CatalogID returns the identifier of the catalog this service owns.
func (s *CatalogService) CatalogID() string {
	return s.catalogID
}

// Add appends a new in-stock product. The caller validates name and price.
//
// The new ID is one more than the highest ID the catalog ever held, so IDs
// grow monotonically and are never reused, even after a delete.
func (s *CatalogService) Add(name string, price float64) (models.Product, error) {
	lastID, err := s.repo.LastID()
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to assign product ID: %w", err)
	}

	product := models.Product{
		ID:      lastID + 1,
		Name:    name,
		Price:   price,
		InStock: true,
	}
	if err := s.repo.Append(product); err != nil {
		return models.Product{}, fmt.Errorf("failed to add product: %w", err)
	}

	s.logger.Debug("product added", zap.Int("product_id", product.ID), zap.String("name", product.Name), zap.Float64("price", product.Price))
	s.publish(models.EventProductAdded, product)
	return product, nil
}

// ToggleStock flips the in-stock flag of the product with the given ID.
// It reports false, without error, when no such product exists.
func (s *CatalogService) ToggleStock(id int) (bool, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to toggle stock: %w", err)
	}

	product.InStock = !product.InStock
	if err := s.repo.Update(*product); err != nil {
		return false, fmt.Errorf("failed to toggle stock: %w", err)
	}

	s.logger.Debug("product stock toggled", zap.Int("product_id", product.ID), zap.Bool("in_stock", product.InStock))
	s.publish(models.EventProductStockToggled, *product)
	return true, nil
}

// Remove deletes the product with the given ID.
// It reports false, without error, when no such product exists.
func (s *CatalogService) Remove(id int) (bool, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to remove product: %w", err)
	}

	if err := s.repo.Delete(id); err != nil {
		return false, fmt.Errorf("failed to remove product: %w", err)
	}

	s.logger.Debug("product removed", zap.Int("product_id", id))
	s.publish(models.EventProductDeleted, *product)
	return true, nil
}

// FindIndex returns the display position of the product with the given ID, or -1.
func (s *CatalogService) FindIndex(id int) (int, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return -1, fmt.Errorf("failed to find product: %w", err)
	}
	for i := range products {
		if products[i].ID == id {
			return i, nil
		}
	}
	return -1, nil
}

// List returns the products in display order.
func (s *CatalogService) List() ([]models.Product, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Close releases everything the catalog holds in its repository.
func (s *CatalogService) Close() error {
	return s.repo.Purge()
}

func (s *CatalogService) publish(eventType models.CatalogEventType, product models.Product) {
	if s.publisher == nil {
		return
	}
	event := models.CatalogEvent{
		Type:       eventType,
		CatalogID:  s.catalogID,
		Product:    product,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishCatalogEvent(event); err != nil {
		s.logger.Warn("failed to publish catalog event", zap.String("type", string(eventType)), zap.Error(err))
	}
}
