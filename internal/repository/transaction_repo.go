package repository

import (
	"time"

	"go-stockledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionFilter narrows ledger listings. Zero values mean "no filter".
type TransactionFilter struct {
	Type   model.TransactionType
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// TransactionRepository is the append-only ledger store. There is
// deliberately no Update or Delete: entries are immutable once written.
type TransactionRepository interface {
	Create(tx *gorm.DB, entry *model.StockTransaction) error
	FindAll(limit, offset int) ([]model.StockTransaction, error)
	FindByID(id uuid.UUID) (*model.StockTransaction, error)
	FindByProduct(productID uuid.UUID, filter TransactionFilter) ([]model.StockTransaction, error)
	FindInPeriod(start, end time.Time) ([]model.StockTransaction, error)
	Count() (int64, error)
	CountByProduct(tx *gorm.DB, productID uuid.UUID) (int64, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

// Create runs inside the caller's transaction so the ledger entry and the
// product quantity update commit or roll back together.
func (r *transactionRepo) Create(tx *gorm.DB, entry *model.StockTransaction) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(entry).Error
}

func (r *transactionRepo) FindAll(limit, offset int) ([]model.StockTransaction, error) {
	var entries []model.StockTransaction
	q := r.db.Preload("Product").Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	err := q.Find(&entries).Error
	return entries, err
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.StockTransaction, error) {
	var entry model.StockTransaction
	err := r.db.Preload("Product").First(&entry, "id = ?", id).Error
	return &entry, err
}

func (r *transactionRepo) FindByProduct(productID uuid.UUID, filter TransactionFilter) ([]model.StockTransaction, error) {
	var entries []model.StockTransaction
	q := r.db.Where("product_id = ?", productID).Order("created_at DESC")
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	err := q.Find(&entries).Error
	return entries, err
}

func (r *transactionRepo) FindInPeriod(start, end time.Time) ([]model.StockTransaction, error) {
	var entries []model.StockTransaction
	err := r.db.Preload("Product").
		Where("created_at BETWEEN ? AND ?", start, end).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *transactionRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.StockTransaction{}).Count(&count).Error
	return count, err
}

// CountByProduct accepts the caller's transaction so referential checks
// can run in the same unit as the write they guard.
func (r *transactionRepo) CountByProduct(tx *gorm.DB, productID uuid.UUID) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	var count int64
	err := tx.Model(&model.StockTransaction{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}
