package service

import (
	"testing"

	"go-stockledger/internal/apperr"
	"go-stockledger/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeRP(minimum int) *model.ReorderPoint {
	return &model.ReorderPoint{MinimumQuantity: minimum, ReorderQuantity: 50, IsActive: true}
}

func TestClassifySeverity(t *testing.T) {
	inactive := activeRP(10)
	inactive.IsActive = false

	tests := []struct {
		name     string
		quantity int
		rp       *model.ReorderPoint
		want     model.StockSeverity
	}{
		{"zero quantity", 0, activeRP(10), model.SeverityOutOfStock},
		{"zero quantity without rp", 0, nil, model.SeverityOutOfStock},
		{"at half minimum", 5, activeRP(10), model.SeverityCritical},
		{"below half minimum", 3, activeRP(10), model.SeverityCritical},
		{"just above half minimum", 6, activeRP(10), model.SeverityWarning},
		{"at minimum", 10, activeRP(10), model.SeverityWarning},
		{"above minimum", 11, activeRP(10), model.SeverityWellStocked},
		{"odd minimum rounds against the product", 3, activeRP(7), model.SeverityCritical},
		{"no rp at default threshold", 10, nil, model.SeverityWarning},
		{"no rp above default threshold", 11, nil, model.SeverityWellStocked},
		{"inactive rp falls back to default", 8, inactive, model.SeverityWarning},
		{"inactive rp well stocked", 30, inactive, model.SeverityWellStocked},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifySeverity(tc.quantity, tc.rp, testDefaultLowStock))
		})
	}
}

func TestClassifySeverityIsPure(t *testing.T) {
	// Identical inputs always classify identically
	rp := activeRP(12)
	for i := 0; i < 5; i++ {
		assert.Equal(t,
			ClassifySeverity(6, rp, testDefaultLowStock),
			ClassifySeverity(6, activeRP(12), testDefaultLowStock))
	}
}

func TestProductStockSuggestsReorder(t *testing.T) {
	env := newTestEnv(t)

	supplier, err := env.catalog.CreateSupplier(&SupplierRequest{Name: "Acme Parts"})
	require.NoError(t, err)
	product, err := env.catalog.CreateProduct(&CreateProductRequest{
		Name: "Widget", SKU: "A1", Quantity: 4, SupplierID: &supplier.ID,
	})
	require.NoError(t, err)
	env.setReorderPoint(t, product, 10, 50)

	status, err := env.alerts.ProductStock(product.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SeverityCritical, status.Severity)
	require.NotNil(t, status.Suggestion)
	assert.Equal(t, 50, status.Suggestion.Quantity)
	require.NotNil(t, status.Suggestion.Supplier)
	assert.Equal(t, "Acme Parts", status.Suggestion.Supplier.Name)
}

func TestProductStockWellStockedHasNoSuggestion(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "A1", "Widget", "5.00", 100)
	env.setReorderPoint(t, product, 10, 50)

	status, err := env.alerts.ProductStock(product.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SeverityWellStocked, status.Severity)
	assert.Nil(t, status.Suggestion)
}

func TestListAlertsOrdersBySeverityThenQuantity(t *testing.T) {
	env := newTestEnv(t)

	healthy := env.createProduct(t, "H1", "Healthy", "1.00", 100)
	env.setReorderPoint(t, healthy, 10, 20)

	warning := env.createProduct(t, "W1", "Warn", "1.00", 9)
	env.setReorderPoint(t, warning, 10, 20)

	criticalHigh := env.createProduct(t, "C2", "Crit High", "1.00", 5)
	env.setReorderPoint(t, criticalHigh, 10, 20)

	criticalLow := env.createProduct(t, "C1", "Crit Low", "1.00", 2)
	env.setReorderPoint(t, criticalLow, 10, 20)

	empty := env.createProduct(t, "O1", "Gone", "1.00", 0)
	env.setReorderPoint(t, empty, 10, 20)

	alerts, err := env.alerts.ListAlerts("")
	require.NoError(t, err)
	require.Len(t, alerts, 4)
	assert.Equal(t, "O1", alerts[0].SKU)
	assert.Equal(t, "C1", alerts[1].SKU)
	assert.Equal(t, "C2", alerts[2].SKU)
	assert.Equal(t, "W1", alerts[3].SKU)

	critical, err := env.alerts.ListAlerts(model.SeverityCritical)
	require.NoError(t, err)
	require.Len(t, critical, 2)
	assert.Equal(t, "C1", critical[0].SKU)
}

func TestSetReorderPointAppliesDefaults(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "A1", "Widget", "5.00", 40)

	rp, err := env.alerts.SetReorderPoint(product.ID, &SetReorderPointRequest{})
	require.NoError(t, err)
	assert.Equal(t, 10, rp.MinimumQuantity) // quarter of stock, clamped to [5, 20]
	assert.Equal(t, 60, rp.ReorderQuantity) // 150% of stock, at least 25
	assert.True(t, rp.IsActive)
}

func TestSetReorderPointRejectsNegativeThresholds(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "A1", "Widget", "5.00", 40)

	_, err := env.alerts.SetReorderPoint(product.ID, &SetReorderPointRequest{MinimumQuantity: -1})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "minimum_quantity", ve.Field)
}

func TestSetReorderPointUpsertsSingleRow(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "A1", "Widget", "5.00", 40)

	first, err := env.alerts.SetReorderPoint(product.ID, &SetReorderPointRequest{MinimumQuantity: 5, ReorderQuantity: 30})
	require.NoError(t, err)
	second, err := env.alerts.SetReorderPoint(product.ID, &SetReorderPointRequest{MinimumQuantity: 8, ReorderQuantity: 40})
	require.NoError(t, err)

	// One configuration per product
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 8, second.MinimumQuantity)
}

func TestDeactivateReorderPointKeepsRow(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "A1", "Widget", "5.00", 8)
	env.setReorderPoint(t, product, 20, 50)

	require.NoError(t, env.alerts.DeactivateReorderPoint(product.ID))

	rp, err := env.reorderRepo.FindByProduct(product.ID)
	require.NoError(t, err)
	assert.False(t, rp.IsActive)

	// Classification falls back to the default threshold
	status, err := env.alerts.ProductStock(product.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SeverityWarning, status.Severity)
}
