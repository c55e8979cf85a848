package repositories

import (
	"errors"
	"fmt"

	"katalog/internal/models"

	"gorm.io/gorm"
)

var _ CatalogRepository = (*GORMCatalogRepository)(nil)

// productRecord is the row layout of the catalog_products table.
// Rows are soft deleted so LastID keeps counting removed products.
type productRecord struct {
	CatalogID string         `gorm:"primaryKey;type:varchar(36)"`
	ProductID int            `gorm:"primaryKey;autoIncrement:false"`
	Name      string         `gorm:"not null"`
	Price     float64        `gorm:"not null"`
	InStock   bool           `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (productRecord) TableName() string {
	return "catalog_products"
}

// MigrateCatalogSchema creates or updates the tables used by GORMCatalogRepository.
func MigrateCatalogSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&productRecord{}); err != nil {
		return fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	return nil
}

// GORMCatalogRepository is a GORM implementation of CatalogRepository.
// Many catalogs share one database, each scoped by its catalog ID.
type GORMCatalogRepository struct {
	db        *gorm.DB
	catalogID string
}

// NewGORMCatalogRepository creates a repository for the catalog with the given ID.
func NewGORMCatalogRepository(db *gorm.DB, catalogID string) *GORMCatalogRepository {
	return &GORMCatalogRepository{
		db:        db,
		catalogID: catalogID,
	}
}

// GetAll retrieves the catalog's products ordered by ID, which is insertion order.
func (r *GORMCatalogRepository) GetAll() ([]models.Product, error) {
	var records []productRecord
	if err := r.scoped().Order("product_id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get catalog products: %w", err)
	}
	products := make([]models.Product, len(records))
	for i := range records {
		products[i] = records[i].toModel()
	}
	return products, nil
}

// GetByID retrieves a single product of the catalog.
func (r *GORMCatalogRepository) GetByID(id int) (*models.Product, error) {
	var record productRecord
	if err := r.scoped().First(&record, "product_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	product := record.toModel()
	return &product, nil
}

// LastID returns the highest product ID stored for the catalog, soft deleted rows included.
func (r *GORMCatalogRepository) LastID() (int, error) {
	var lastID int
	err := r.db.Unscoped().
		Model(&productRecord{}).
		Where("catalog_id = ?", r.catalogID).
		Select("COALESCE(MAX(product_id), 0)").
		Scan(&lastID).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get last product ID: %w", err)
	}
	return lastID, nil
}

// Append inserts a new product row.
func (r *GORMCatalogRepository) Append(product models.Product) error {
	record := newProductRecord(r.catalogID, product)
	if err := r.db.Create(&record).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update writes all mutable columns of an existing product.
func (r *GORMCatalogRepository) Update(product models.Product) error {
	res := r.scoped().
		Model(&productRecord{}).
		Where("product_id = ?", product.ID).
		Updates(map[string]any{
			"name":     product.Name,
			"price":    product.Price,
			"in_stock": product.InStock,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d not updated: %w", product.ID, ErrProductNotFound)
	}
	return nil
}

// Delete soft deletes a product of the catalog.
func (r *GORMCatalogRepository) Delete(id int) error {
	res := r.scoped().Where("product_id = ?", id).Delete(&productRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d not deleted: %w", id, ErrProductNotFound)
	}
	return nil
}

// Purge permanently removes every row of the catalog.
func (r *GORMCatalogRepository) Purge() error {
	res := r.db.Unscoped().Where("catalog_id = ?", r.catalogID).Delete(&productRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to purge catalog %s: %w", r.catalogID, res.Error)
	}
	return nil
}

func (r *GORMCatalogRepository) scoped() *gorm.DB {
	return r.db.Where("catalog_id = ?", r.catalogID)
}

func newProductRecord(catalogID string, p models.Product) productRecord {
	return productRecord{
		CatalogID: catalogID,
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		InStock:   p.InStock,
	}
}

func (rec productRecord) toModel() models.Product {
	return models.Product{
		ID:      rec.ProductID,
		Name:    rec.Name,
		Price:   rec.Price,
		InStock: rec.InStock,
	}
}
