package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	SKU         string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Quantity    int             `gorm:"not null;default:0" json:"quantity"`

	SupplierID *uuid.UUID `gorm:"type:uuid" json:"supplier_id,omitempty"`
	Supplier   *Supplier  `json:"supplier,omitempty"`

	ReorderPoint *ReorderPoint      `json:"reorder_point,omitempty"`
	Transactions []StockTransaction `json:"transactions,omitempty"`
}

// StockValue is price * quantity for this product.
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
