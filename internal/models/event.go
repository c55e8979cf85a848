package models

import "time"

// CatalogEventType names the kind of change a CatalogEvent describes.
type CatalogEventType string

const (
	EventProductAdded        CatalogEventType = "product.added"
	EventProductStockToggled CatalogEventType = "product.stock_toggled"
	EventProductDeleted      CatalogEventType = "product.deleted"
)

// CatalogEvent describes a single mutation of a catalog.
type CatalogEvent struct {
	Type       CatalogEventType `json:"type"`
	CatalogID  string           `json:"catalog_id"`
	Product    Product          `json:"product"` // State after the change, or the removed product
	OccurredAt time.Time        `json:"occurred_at"`
}
