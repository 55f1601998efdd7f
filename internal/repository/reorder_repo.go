package repository

import (
	"go-stockledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReorderPointRepository interface {
	Save(rp *model.ReorderPoint) error
	FindByProduct(productID uuid.UUID) (*model.ReorderPoint, error)
	Deactivate(productID uuid.UUID) error
	DeleteByProduct(tx *gorm.DB, productID uuid.UUID) error
}

type reorderRepo struct {
	db *gorm.DB
}

func NewReorderRepo(db *gorm.DB) ReorderPointRepository {
	return &reorderRepo{db}
}

func (r *reorderRepo) Save(rp *model.ReorderPoint) error {
	return r.db.Save(rp).Error
}

func (r *reorderRepo) FindByProduct(productID uuid.UUID) (*model.ReorderPoint, error) {
	var rp model.ReorderPoint
	err := r.db.First(&rp, "product_id = ?", productID).Error
	return &rp, err
}

func (r *reorderRepo) Deactivate(productID uuid.UUID) error {
	return r.db.Model(&model.ReorderPoint{}).
		Where("product_id = ?", productID).
		Update("is_active", false).Error
}

// DeleteByProduct removes the configuration row when its product is
// deleted. Runs in the caller's transaction.
func (r *reorderRepo) DeleteByProduct(tx *gorm.DB, productID uuid.UUID) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Delete(&model.ReorderPoint{}, "product_id = ?", productID).Error
}
