package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go-stockledger/internal/apperr"
	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// productImportRow keeps every field as text so a malformed cell becomes a
// per-row error instead of failing the whole file.
type productImportRow struct {
	SKU         string `csv:"sku"`
	Name        string `csv:"name"`
	Description string `csv:"description"`
	Price       string `csv:"price"`
	Quantity    string `csv:"quantity"`
	Supplier    string `csv:"supplier"`
}

type productExportRow struct {
	SKU         string `csv:"sku"`
	Name        string `csv:"name"`
	Description string `csv:"description"`
	Price       string `csv:"price"`
	Quantity    int    `csv:"quantity"`
	Supplier    string `csv:"supplier"`
	StockValue  string `csv:"stock_value"`
}

type transactionExportRow struct {
	CreatedAt      string `csv:"created_at"`
	ProductSKU     string `csv:"product_sku"`
	Type           string `csv:"type"`
	QuantityChange int    `csv:"quantity_change"`
	QuantityBefore int    `csv:"quantity_before"`
	QuantityAfter  int    `csv:"quantity_after"`
	Reason         string `csv:"reason"`
	Notes          string `csv:"notes"`
}

type alertExportRow struct {
	SKU             string `csv:"sku"`
	Name            string `csv:"name"`
	Quantity        int    `csv:"quantity"`
	MinimumQuantity string `csv:"minimum_quantity"`
	Severity        string `csv:"severity"`
	SuggestedQty    string `csv:"suggested_reorder_quantity"`
}

// RowError describes why one CSV row was skipped.
type RowError struct {
	Row     int    `json:"row"`
	SKU     string `json:"sku,omitempty"`
	Message string `json:"message"`
}

// ImportReport is the structured result of a bulk import: the batch
// continues past bad rows, so partial success is the normal case.
type ImportReport struct {
	Created   int        `json:"created"`
	Updated   int        `json:"updated"`
	Unchanged int        `json:"unchanged"`
	Errors    []RowError `json:"errors"`
}

type importOutcome int

const (
	outcomeUnchanged importOutcome = iota
	outcomeCreated
	outcomeUpdated
)

type ImportExportService interface {
	ImportProducts(data []byte) (*ImportReport, error)
	ExportProducts() ([]byte, error)
	ExportTransactions() ([]byte, error)
	ExportAlerts() ([]byte, error)
}

type importExportService struct {
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	txRepo       repository.TransactionRepository
	ledger       LedgerService
	alerts       AlertService
}

func NewImportExportService(
	pRepo repository.ProductRepository,
	sRepo repository.SupplierRepository,
	tRepo repository.TransactionRepository,
	ledger LedgerService,
	alerts AlertService,
) ImportExportService {
	return &importExportService{
		productRepo:  pRepo,
		supplierRepo: sRepo,
		txRepo:       tRepo,
		ledger:       ledger,
		alerts:       alerts,
	}
}

// ImportProducts upserts products keyed by SKU. New SKUs create products
// (auto-creating the named supplier); existing SKUs update fields, and a
// quantity difference is routed through the ledger as a correction so it
// never becomes a silent overwrite. Re-importing an unchanged file is a
// no-op: zero new ledger entries.
func (s *importExportService) ImportProducts(data []byte) (*ImportReport, error) {
	var rows []*productImportRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, apperr.Validation("file", "could not parse CSV: %v", err)
	}

	report := &ImportReport{Errors: []RowError{}}
	for i, row := range rows {
		rowNum := i + 2 // header is row 1
		outcome, err := s.importRow(row)
		if err != nil {
			report.Errors = append(report.Errors, RowError{Row: rowNum, SKU: row.SKU, Message: err.Error()})
			continue
		}
		switch outcome {
		case outcomeCreated:
			report.Created++
		case outcomeUpdated:
			report.Updated++
		default:
			report.Unchanged++
		}
	}

	zap.L().Info("csv import finished",
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("unchanged", report.Unchanged),
		zap.Int("errors", len(report.Errors)),
	)
	return report, nil
}

func (s *importExportService) importRow(row *productImportRow) (importOutcome, error) {
	row.SKU = strings.TrimSpace(row.SKU)
	if row.SKU == "" {
		return outcomeUnchanged, fmt.Errorf("sku is required")
	}
	if strings.TrimSpace(row.Name) == "" {
		return outcomeUnchanged, fmt.Errorf("name is required")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(row.Price))
	if err != nil {
		return outcomeUnchanged, fmt.Errorf("invalid price %q", row.Price)
	}
	if price.IsNegative() {
		return outcomeUnchanged, fmt.Errorf("price must not be negative")
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(row.Quantity))
	if err != nil {
		return outcomeUnchanged, fmt.Errorf("invalid quantity %q", row.Quantity)
	}
	if quantity < 0 {
		return outcomeUnchanged, fmt.Errorf("quantity must not be negative")
	}

	supplierID, err := s.resolveSupplier(strings.TrimSpace(row.Supplier))
	if err != nil {
		return outcomeUnchanged, err
	}

	existing, err := s.productRepo.FindBySKU(row.SKU)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return outcomeUnchanged, err
		}
		product := &model.Product{
			SKU:         row.SKU,
			Name:        row.Name,
			Description: row.Description,
			Price:       price,
			Quantity:    quantity,
			SupplierID:  supplierID,
		}
		if err := s.productRepo.Create(nil, product); err != nil {
			return outcomeUnchanged, err
		}
		return outcomeCreated, nil
	}

	changed := false
	if existing.Name != row.Name {
		existing.Name = row.Name
		changed = true
	}
	if existing.Description != row.Description {
		existing.Description = row.Description
		changed = true
	}
	if !existing.Price.Equal(price) {
		existing.Price = price
		changed = true
	}
	if !uuidPtrEqual(existing.SupplierID, supplierID) {
		existing.SupplierID = supplierID
		changed = true
	}
	if changed {
		if err := s.productRepo.Update(existing); err != nil {
			return outcomeUnchanged, err
		}
	}

	// Quantity differences go through the ledger, never a direct write.
	if existing.Quantity != quantity {
		if _, err := s.ledger.RecordAdjustment(&AdjustStockRequest{
			ProductID: existing.ID,
			Quantity:  &quantity,
			Type:      model.TxCorrection,
			Reason:    "CSV import",
		}); err != nil {
			return outcomeUnchanged, err
		}
		changed = true
	}

	if changed {
		return outcomeUpdated, nil
	}
	return outcomeUnchanged, nil
}

func (s *importExportService) resolveSupplier(name string) (*uuid.UUID, error) {
	if name == "" {
		return nil, nil
	}
	supplier, err := s.supplierRepo.FindByName(name)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		supplier = &model.Supplier{Name: name}
		if err := s.supplierRepo.Create(supplier); err != nil {
			return nil, err
		}
	}
	id := supplier.ID
	return &id, nil
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *importExportService) ExportProducts() ([]byte, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}
	rows := make([]*productExportRow, 0, len(products))
	for i := range products {
		p := &products[i]
		supplierName := ""
		if p.Supplier != nil {
			supplierName = p.Supplier.Name
		}
		rows = append(rows, &productExportRow{
			SKU:         p.SKU,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price.StringFixed(2),
			Quantity:    p.Quantity,
			Supplier:    supplierName,
			StockValue:  p.StockValue().StringFixed(2),
		})
	}
	return gocsv.MarshalBytes(&rows)
}

func (s *importExportService) ExportTransactions() ([]byte, error) {
	entries, err := s.txRepo.FindAll(0, 0)
	if err != nil {
		return nil, err
	}
	rows := make([]*transactionExportRow, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		sku := ""
		if e.Product != nil {
			sku = e.Product.SKU
		}
		rows = append(rows, &transactionExportRow{
			CreatedAt:      e.CreatedAt.Format("2006-01-02 15:04:05"),
			ProductSKU:     sku,
			Type:           string(e.Type),
			QuantityChange: e.QuantityChange,
			QuantityBefore: e.QuantityBefore,
			QuantityAfter:  e.QuantityAfter,
			Reason:         e.Reason,
			Notes:          e.Notes,
		})
	}
	return gocsv.MarshalBytes(&rows)
}

func (s *importExportService) ExportAlerts() ([]byte, error) {
	alerts, err := s.alerts.ListAlerts("")
	if err != nil {
		return nil, err
	}
	rows := make([]*alertExportRow, 0, len(alerts))
	for _, a := range alerts {
		row := &alertExportRow{
			SKU:      a.SKU,
			Name:     a.Name,
			Quantity: a.Quantity,
			Severity: string(a.Severity),
		}
		if a.Minimum != nil {
			row.MinimumQuantity = strconv.Itoa(*a.Minimum)
		}
		if a.Suggestion != nil {
			row.SuggestedQty = strconv.Itoa(a.Suggestion.Quantity)
		}
		rows = append(rows, row)
	}
	return gocsv.MarshalBytes(&rows)
}
