package service

import (
	"errors"

	"go-stockledger/internal/apperr"
	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"
	"go-stockledger/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateProductRequest carries validated product input across the boundary.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	SKU         string          `json:"sku" validate:"required,max=50"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	SupplierID  *uuid.UUID      `json:"supplier_id"`
}

// UpdateProductRequest deliberately has no quantity field: quantity only
// moves through the ledger so every change leaves an audit entry.
type UpdateProductRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	SKU         string          `json:"sku" validate:"required,max=50"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	SupplierID  *uuid.UUID      `json:"supplier_id"`
}

type SupplierRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	ContactPerson string `json:"contact_person" validate:"max=100"`
	Email         string `json:"email" validate:"omitempty,email,max=120"`
	Phone         string `json:"phone" validate:"max=20"`
	Address       string `json:"address"`
}

type CatalogService interface {
	CreateProduct(req *CreateProductRequest) (*model.Product, error)
	UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)
	ListProducts() ([]model.Product, error)
	DeleteProduct(id uuid.UUID) error

	CreateSupplier(req *SupplierRequest) (*model.Supplier, error)
	UpdateSupplier(id uuid.UUID, req *SupplierRequest) (*model.Supplier, error)
	GetSupplier(id uuid.UUID) (*model.Supplier, error)
	ListSuppliers() ([]model.Supplier, error)
	DeleteSupplier(id uuid.UUID) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	txRepo       repository.TransactionRepository
	reorderRepo  repository.ReorderPointRepository
	db           *gorm.DB
}

func NewCatalogService(
	pRepo repository.ProductRepository,
	sRepo repository.SupplierRepository,
	tRepo repository.TransactionRepository,
	rRepo repository.ReorderPointRepository,
	db *gorm.DB,
) CatalogService {
	return &catalogService{
		productRepo:  pRepo,
		supplierRepo: sRepo,
		txRepo:       tRepo,
		reorderRepo:  rRepo,
		db:           db,
	}
}

// validateRequest maps the first declared-rule failure on a request
// struct to a field-level validation error.
func validateRequest(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return apperr.Validation(first.Field, "failed on rule '%s'", first.Tag)
	}
	return nil
}

// checkProductRefs covers what the declared rules cannot: price sign and
// the supplier reference.
func (s *catalogService) checkProductRefs(price decimal.Decimal, supplierID *uuid.UUID) error {
	if price.IsNegative() {
		return apperr.Validation("price", "must not be negative")
	}
	if supplierID != nil {
		if _, err := s.supplierRepo.FindByID(*supplierID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Validation("supplier_id", "supplier %s does not exist", supplierID)
			}
			return err
		}
	}
	return nil
}

func (s *catalogService) CreateProduct(req *CreateProductRequest) (*model.Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.checkProductRefs(req.Price, req.SupplierID); err != nil {
		return nil, err
	}

	existing, err := s.productRepo.FindBySKU(req.SKU)
	if err == nil && existing.ID != uuid.Nil {
		return nil, apperr.Validation("sku", "SKU %q already exists", req.SKU)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	product := &model.Product{
		Name:        req.Name,
		SKU:         req.SKU,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		SupplierID:  req.SupplierID,
	}
	if err := s.productRepo.Create(nil, product); err != nil {
		return nil, err
	}

	zap.L().Info("product created", zap.String("sku", product.SKU), zap.String("id", product.ID.String()))
	return product, nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*model.Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.checkProductRefs(req.Price, req.SupplierID); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product", id.String())
		}
		return nil, err
	}

	// SKU must stay unique across the other products
	if req.SKU != product.SKU {
		other, err := s.productRepo.FindBySKU(req.SKU)
		if err == nil && other.ID != id {
			return nil, apperr.Validation("sku", "SKU %q already exists", req.SKU)
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	product.Name = req.Name
	product.SKU = req.SKU
	product.Description = req.Description
	product.Price = req.Price
	product.SupplierID = req.SupplierID
	product.Supplier = nil

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByIDWithAlertData(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product", id.String())
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) ListProducts() ([]model.Product, error) {
	return s.productRepo.FindAllWithAlertData()
}

// DeleteProduct refuses while ledger entries reference the product (the
// audit trail must survive); the reorder point is configuration, not
// history, and is removed along with the product.
func (s *catalogService) DeleteProduct(id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("product", id.String())
		}
		return err
	}

	// Count inside the transaction so an adjustment landing mid-delete
	// cannot orphan its ledger entry.
	return s.db.Transaction(func(tx *gorm.DB) error {
		count, err := s.txRepo.CountByProduct(tx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperr.Integrity("product has %d ledger entries and cannot be deleted", count)
		}
		if err := s.reorderRepo.DeleteByProduct(tx, id); err != nil {
			return err
		}
		return s.productRepo.Delete(tx, id)
	})
}

func (s *catalogService) CreateSupplier(req *SupplierRequest) (*model.Supplier, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	supplier := &model.Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	}
	if err := s.supplierRepo.Create(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *catalogService) UpdateSupplier(id uuid.UUID, req *SupplierRequest) (*model.Supplier, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("supplier", id.String())
		}
		return nil, err
	}

	supplier.Name = req.Name
	supplier.ContactPerson = req.ContactPerson
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	supplier.Address = req.Address

	if err := s.supplierRepo.Update(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *catalogService) GetSupplier(id uuid.UUID) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("supplier", id.String())
		}
		return nil, err
	}
	return supplier, nil
}

func (s *catalogService) ListSuppliers() ([]model.Supplier, error) {
	return s.supplierRepo.FindAll()
}

// DeleteSupplier fails with an integrity error while any product still
// references the supplier.
func (s *catalogService) DeleteSupplier(id uuid.UUID) error {
	if _, err := s.supplierRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("supplier", id.String())
		}
		return err
	}

	count, err := s.productRepo.CountBySupplier(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Integrity("supplier is referenced by %d products and cannot be deleted", count)
	}
	return s.supplierRepo.Delete(id)
}
