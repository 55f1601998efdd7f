package model

import "github.com/google/uuid"

type TransactionType string

const (
	TxManualAdjustment TransactionType = "manual_adjustment"
	TxSale             TransactionType = "sale"
	TxPurchase         TransactionType = "purchase"
	TxReturn           TransactionType = "return"
	TxCorrection       TransactionType = "correction"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TxManualAdjustment, TxSale, TxPurchase, TxReturn, TxCorrection:
		return true
	}
	return false
}

// TransactionTypes lists all known types in a stable order.
func TransactionTypes() []TransactionType {
	return []TransactionType{TxManualAdjustment, TxSale, TxPurchase, TxReturn, TxCorrection}
}

// StockTransaction is one entry in the append-only stock ledger.
// Entries are never updated or deleted after creation; the invariant
// QuantityAfter == QuantityBefore + QuantityChange always holds, and
// QuantityAfter equals the product quantity at the moment of recording.
type StockTransaction struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product  `json:"product,omitempty" validate:"-"`

	Type           TransactionType `gorm:"type:varchar(20);not null" json:"type" validate:"required"`
	QuantityChange int             `gorm:"not null" json:"quantity_change"`
	QuantityBefore int             `gorm:"not null" json:"quantity_before"`
	QuantityAfter  int             `gorm:"not null" json:"quantity_after"`

	Reason string `gorm:"type:varchar(200)" json:"reason"`
	Notes  string `gorm:"type:text" json:"notes"`
}

// IsIncrease reports whether this entry added stock.
func (t *StockTransaction) IsIncrease() bool {
	return t.QuantityChange > 0
}
