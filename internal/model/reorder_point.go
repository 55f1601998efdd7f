package model

import "github.com/google/uuid"

// ReorderPoint is the per-product low-stock configuration. At most one
// row exists per product; it is deactivated rather than deleted.
type ReorderPoint struct {
	BaseModel
	ProductID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"product_id"`
	MinimumQuantity int       `gorm:"not null" json:"minimum_quantity"`
	ReorderQuantity int       `gorm:"not null" json:"reorder_quantity"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
}
