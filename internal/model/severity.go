package model

// StockSeverity is the derived stock-health classification of a product.
// It is computed at read time from quantity and reorder point, never stored.
type StockSeverity string

const (
	SeverityOutOfStock  StockSeverity = "out_of_stock"
	SeverityCritical    StockSeverity = "critical"
	SeverityWarning     StockSeverity = "warning"
	SeverityWellStocked StockSeverity = "well_stocked"
)

// Rank orders severities from healthy (0) to out of stock (3).
func (s StockSeverity) Rank() int {
	switch s {
	case SeverityOutOfStock:
		return 3
	case SeverityCritical:
		return 2
	case SeverityWarning:
		return 1
	}
	return 0
}

// Severities lists all severities from most to least urgent.
func Severities() []StockSeverity {
	return []StockSeverity{SeverityOutOfStock, SeverityCritical, SeverityWarning, SeverityWellStocked}
}
