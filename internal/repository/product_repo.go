package repository

import (
	"go-stockledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindAll() ([]model.Product, error)
	FindAllWithAlertData() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByIDWithAlertData(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	UpdateQuantity(tx *gorm.DB, id uuid.UUID, before, after int) error
	CountBySupplier(supplierID uuid.UUID) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Supplier").Order("name ASC").Find(&products).Error
	return products, err
}

// FindAllWithAlertData preloads everything alert classification needs.
func (r *productRepo) FindAllWithAlertData() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Supplier").Preload("ReorderPoint").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Supplier").First(&product, "id = ?", id).Error
	return &product, err
}

func (r *productRepo) FindByIDWithAlertData(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Supplier").Preload("ReorderPoint").First(&product, "id = ?", id).Error
	return &product, err
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "sku = ?", sku).Error
	return &product, err
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Delete(&model.Product{}, "id = ?", id).Error
}

// UpdateQuantity runs inside the caller's transaction and guards against
// concurrent writers: the update only applies while the stored quantity
// still equals the value the ledger entry was computed from.
func (r *productRepo) UpdateQuantity(tx *gorm.DB, id uuid.UUID, before, after int) error {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND quantity = ?", id, before).
		Update("quantity", after)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) CountBySupplier(supplierID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("supplier_id = ?", supplierID).Count(&count).Error
	return count, err
}
