package service

import (
	"errors"
	"sort"

	"go-stockledger/internal/apperr"
	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassifySeverity derives stock health from quantity and the (optional)
// reorder point. Pure function: two products with the same inputs always
// classify identically.
//
// With an active reorder point the bands are inclusive at the top:
// critical covers 0 < q <= min/2, warning covers min/2 < q <= min.
// Without one, defaultLowStock is the generic low-stock threshold.
func ClassifySeverity(quantity int, rp *model.ReorderPoint, defaultLowStock int) model.StockSeverity {
	if quantity == 0 {
		return model.SeverityOutOfStock
	}
	if rp == nil || !rp.IsActive {
		if quantity <= defaultLowStock {
			return model.SeverityWarning
		}
		return model.SeverityWellStocked
	}
	if quantity*2 <= rp.MinimumQuantity {
		return model.SeverityCritical
	}
	if quantity <= rp.MinimumQuantity {
		return model.SeverityWarning
	}
	return model.SeverityWellStocked
}

// defaultMinimumQuantity mirrors the historical provisioning rule:
// a quarter of current stock, clamped to [5, 20].
func defaultMinimumQuantity(quantity int) int {
	min := quantity / 4
	if min < 5 {
		min = 5
	}
	if min > 20 {
		min = 20
	}
	return min
}

// defaultReorderQuantity replenishes to 150% of current stock, at least 25.
func defaultReorderQuantity(quantity int) int {
	qty := quantity * 3 / 2
	if qty < 25 {
		qty = 25
	}
	return qty
}

// ReorderSuggestion is what to order and from whom when stock is unhealthy.
type ReorderSuggestion struct {
	Quantity int             `json:"quantity"`
	Supplier *model.Supplier `json:"supplier,omitempty"`
}

// StockStatus is the per-product read surface: current quantity, derived
// severity, and the reorder suggestion when one applies.
type StockStatus struct {
	ProductID  uuid.UUID           `json:"product_id"`
	SKU        string              `json:"sku"`
	Name       string              `json:"name"`
	Quantity   int                 `json:"quantity"`
	Severity   model.StockSeverity `json:"severity"`
	Minimum    *int                `json:"minimum_quantity,omitempty"`
	Suggestion *ReorderSuggestion  `json:"suggestion,omitempty"`
}

// SetReorderPointRequest configures the alert threshold for one product.
// Zero values fall back to the default provisioning formulas.
type SetReorderPointRequest struct {
	MinimumQuantity int `json:"minimum_quantity" validate:"gte=0"`
	ReorderQuantity int `json:"reorder_quantity" validate:"gte=0"`
}

type AlertService interface {
	ProductStock(productID uuid.UUID) (*StockStatus, error)
	ListAlerts(severity model.StockSeverity) ([]StockStatus, error)
	SetReorderPoint(productID uuid.UUID, req *SetReorderPointRequest) (*model.ReorderPoint, error)
	DeactivateReorderPoint(productID uuid.UUID) error
}

type alertService struct {
	productRepo     repository.ProductRepository
	reorderRepo     repository.ReorderPointRepository
	defaultLowStock int
}

func NewAlertService(pRepo repository.ProductRepository, rRepo repository.ReorderPointRepository, defaultLowStock int) AlertService {
	return &alertService{
		productRepo:     pRepo,
		reorderRepo:     rRepo,
		defaultLowStock: defaultLowStock,
	}
}

func (s *alertService) status(product *model.Product) StockStatus {
	severity := ClassifySeverity(product.Quantity, product.ReorderPoint, s.defaultLowStock)
	st := StockStatus{
		ProductID: product.ID,
		SKU:       product.SKU,
		Name:      product.Name,
		Quantity:  product.Quantity,
		Severity:  severity,
	}
	if product.ReorderPoint != nil && product.ReorderPoint.IsActive {
		st.Minimum = &product.ReorderPoint.MinimumQuantity
	}
	if severity != model.SeverityWellStocked {
		qty := defaultReorderQuantity(product.Quantity)
		if product.ReorderPoint != nil && product.ReorderPoint.IsActive {
			qty = product.ReorderPoint.ReorderQuantity
		}
		st.Suggestion = &ReorderSuggestion{Quantity: qty, Supplier: product.Supplier}
	}
	return st
}

func (s *alertService) ProductStock(productID uuid.UUID) (*StockStatus, error) {
	product, err := s.productRepo.FindByIDWithAlertData(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product", productID.String())
		}
		return nil, err
	}
	st := s.status(product)
	return &st, nil
}

// ListAlerts returns every product whose derived severity matches the
// filter (empty filter means every non-well-stocked product), ordered by
// severity, then quantity ascending.
func (s *alertService) ListAlerts(severity model.StockSeverity) ([]StockStatus, error) {
	products, err := s.productRepo.FindAllWithAlertData()
	if err != nil {
		return nil, err
	}

	alerts := make([]StockStatus, 0)
	for i := range products {
		st := s.status(&products[i])
		if st.Severity == model.SeverityWellStocked {
			continue
		}
		if severity != "" && st.Severity != severity {
			continue
		}
		alerts = append(alerts, st)
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Severity.Rank() != alerts[j].Severity.Rank() {
			return alerts[i].Severity.Rank() > alerts[j].Severity.Rank()
		}
		return alerts[i].Quantity < alerts[j].Quantity
	})
	return alerts, nil
}

func (s *alertService) SetReorderPoint(productID uuid.UUID, req *SetReorderPointRequest) (*model.ReorderPoint, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product", productID.String())
		}
		return nil, err
	}

	minQty := req.MinimumQuantity
	if minQty == 0 {
		minQty = defaultMinimumQuantity(product.Quantity)
	}
	reorderQty := req.ReorderQuantity
	if reorderQty == 0 {
		reorderQty = defaultReorderQuantity(product.Quantity)
	}

	rp, err := s.reorderRepo.FindByProduct(productID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		rp = &model.ReorderPoint{ProductID: productID}
	}
	rp.MinimumQuantity = minQty
	rp.ReorderQuantity = reorderQty
	rp.IsActive = true

	if err := s.reorderRepo.Save(rp); err != nil {
		return nil, err
	}
	return rp, nil
}

func (s *alertService) DeactivateReorderPoint(productID uuid.UUID) error {
	if _, err := s.reorderRepo.FindByProduct(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("reorder point for product", productID.String())
		}
		return err
	}
	return s.reorderRepo.Deactivate(productID)
}
