package service

import (
	"errors"
	"fmt"

	"go-stockledger/internal/apperr"
	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"
	"go-stockledger/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdjustStockRequest is the single stock-mutation entry point. Exactly one
// of Delta (signed change) or Quantity (absolute target) must be set.
type AdjustStockRequest struct {
	ProductID uuid.UUID             `json:"product_id" validate:"uuid_required"`
	Delta     *int                  `json:"delta"`
	Quantity  *int                  `json:"quantity"`
	Type      model.TransactionType `json:"type" validate:"required"`
	Reason    string                `json:"reason" validate:"max=200"`
	Notes     string                `json:"notes"`
}

type LedgerService interface {
	RecordAdjustment(req *AdjustStockRequest) (*model.StockTransaction, error)
	ListForProduct(productID uuid.UUID, filter repository.TransactionFilter) ([]model.StockTransaction, error)
	ListTransactions(limit, offset int) ([]model.StockTransaction, error)
	GetTransaction(id uuid.UUID) (*model.StockTransaction, error)
}

type ledgerService struct {
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
	db          *gorm.DB
	hub         *ws.Hub
}

func NewLedgerService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository, db *gorm.DB, hub *ws.Hub) LedgerService {
	return &ledgerService{
		productRepo: pRepo,
		txRepo:      tRepo,
		db:          db,
		hub:         hub,
	}
}

// RecordAdjustment appends a ledger entry and moves the product quantity in
// one atomic unit. A validation failure leaves both untouched.
func (s *ledgerService) RecordAdjustment(req *AdjustStockRequest) (*model.StockTransaction, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, apperr.Validation("type", "unknown transaction type %q", req.Type)
	}
	if (req.Delta == nil) == (req.Quantity == nil) {
		return nil, apperr.Validation("delta", "exactly one of delta or quantity must be provided")
	}

	var entry *model.StockTransaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.First(&product, "id = ?", req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("product", req.ProductID.String())
			}
			return err
		}

		before := product.Quantity
		var delta int
		if req.Delta != nil {
			delta = *req.Delta
		} else {
			delta = *req.Quantity - before
		}
		if delta == 0 {
			return apperr.Validation("delta", "adjustment would not change the quantity")
		}

		after := before + delta
		if after < 0 {
			return apperr.Validation("quantity", "resulting quantity would be negative (%d)", after)
		}

		entry = &model.StockTransaction{
			ProductID:      product.ID,
			Type:           req.Type,
			QuantityChange: delta,
			QuantityBefore: before,
			QuantityAfter:  after,
			Reason:         req.Reason,
			Notes:          req.Notes,
		}
		if err := s.txRepo.Create(tx, entry); err != nil {
			return err
		}
		if err := s.productRepo.UpdateQuantity(tx, product.ID, before, after); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Integrity("stock changed concurrently, retry the adjustment")
			}
			return err
		}

		entry.Product = &product
		entry.Product.Quantity = after
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("stock adjusted",
		zap.String("product_id", entry.ProductID.String()),
		zap.String("type", string(entry.Type)),
		zap.Int("change", entry.QuantityChange),
		zap.Int("quantity", entry.QuantityAfter),
	)

	if s.hub != nil {
		go s.hub.Publish("stock_update", map[string]interface{}{
			"product_id":      entry.ProductID,
			"sku":             entry.Product.SKU,
			"name":            entry.Product.Name,
			"type":            entry.Type,
			"quantity_change": entry.QuantityChange,
			"quantity":        entry.QuantityAfter,
			"message":         fmt.Sprintf("stock of '%s' moved %+d to %d", entry.Product.Name, entry.QuantityChange, entry.QuantityAfter),
		})
	}

	return entry, nil
}

func (s *ledgerService) ListForProduct(productID uuid.UUID, filter repository.TransactionFilter) ([]model.StockTransaction, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product", productID.String())
		}
		return nil, err
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, apperr.Validation("type", "unknown transaction type %q", filter.Type)
	}
	return s.txRepo.FindByProduct(productID, filter)
}

func (s *ledgerService) ListTransactions(limit, offset int) ([]model.StockTransaction, error) {
	return s.txRepo.FindAll(limit, offset)
}

func (s *ledgerService) GetTransaction(id uuid.UUID) (*model.StockTransaction, error) {
	entry, err := s.txRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("transaction", id.String())
		}
		return nil, err
	}
	return entry, nil
}
