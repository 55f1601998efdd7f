package service

import (
	"errors"
	"strings"
	"testing"

	"go-stockledger/internal/apperr"
	"go-stockledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateProductRejectsDuplicateSKU(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, "A1", "Widget", "5.00", 10)

	_, err := env.catalog.CreateProduct(&CreateProductRequest{Name: "Other", SKU: "A1"})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "sku", ve.Field)
}

func TestCreateProductRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	unknownSupplier := uuid.New()

	tests := []struct {
		name  string
		req   *CreateProductRequest
		field string
	}{
		{"negative price", &CreateProductRequest{Name: "W", SKU: "A1", Price: decimal.RequireFromString("-1")}, "price"},
		{"negative quantity", &CreateProductRequest{Name: "W", SKU: "A1", Quantity: -1}, "quantity"},
		{"missing name", &CreateProductRequest{SKU: "A1"}, "name"},
		{"missing sku", &CreateProductRequest{Name: "W"}, "sku"},
		{"unknown supplier", &CreateProductRequest{Name: "W", SKU: "A1", SupplierID: &unknownSupplier}, "supplier_id"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.catalog.CreateProduct(tc.req)
			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestCatalogEnforcesDeclaredRules(t *testing.T) {
	env := newTestEnv(t)
	longName := strings.Repeat("x", 300)
	var ve *apperr.ValidationError

	// Field limits reject before the database sees the row
	_, err := env.catalog.CreateProduct(&CreateProductRequest{Name: longName, SKU: "A1"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)

	_, err = env.catalog.CreateSupplier(&SupplierRequest{Name: "Acme", Email: "not-an-email"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)

	product := env.createProduct(t, "A1", "Widget", "5.00", 10)
	_, err = env.catalog.UpdateProduct(product.ID, &UpdateProductRequest{Name: longName, SKU: "A1"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)

	supplier, err := env.catalog.CreateSupplier(&SupplierRequest{Name: "Acme"})
	require.NoError(t, err)
	_, err = env.catalog.UpdateSupplier(supplier.ID, &SupplierRequest{Name: "Acme", Phone: strings.Repeat("1", 30)})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "phone", ve.Field)
}

func TestUpdateProductKeepsSKUUnique(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, "A1", "First", "5.00", 10)
	second := env.createProduct(t, "A2", "Second", "5.00", 10)

	_, err := env.catalog.UpdateProduct(second.ID, &UpdateProductRequest{
		Name: "Second", SKU: "A1", Price: decimal.RequireFromString("5.00"),
	})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "sku", ve.Field)
}

func TestUpdateProductDoesNotTouchQuantity(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "A1", "Widget", "5.00", 10)

	updated, err := env.catalog.UpdateProduct(product.ID, &UpdateProductRequest{
		Name: "Widget Mk2", SKU: "A1", Price: decimal.RequireFromString("6.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Widget Mk2", updated.Name)

	stored, err := env.productRepo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Quantity)

	// No ledger entries either: a product edit is not a stock movement
	count, err := env.txRepo.CountByProduct(nil, product.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeleteProductBlockedByLedgerEntries(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "A1", "Widget", "5.00", 10)
	env.adjust(t, product, -2, model.TxSale)

	err := env.catalog.DeleteProduct(product.ID)
	var ie *apperr.IntegrityError
	assert.ErrorAs(t, err, &ie)

	_, err = env.productRepo.FindByID(product.ID)
	assert.NoError(t, err)
}

func TestDeleteProductRemovesReorderPoint(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "A1", "Widget", "5.00", 10)
	env.setReorderPoint(t, product, 5, 25)

	require.NoError(t, env.catalog.DeleteProduct(product.ID))

	_, err := env.productRepo.FindByID(product.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	_, err = env.reorderRepo.FindByProduct(product.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestDeleteSupplierBlockedWhileReferenced(t *testing.T) {
	env := newTestEnv(t)
	supplier, err := env.catalog.CreateSupplier(&SupplierRequest{Name: "Acme Parts"})
	require.NoError(t, err)
	product, err := env.catalog.CreateProduct(&CreateProductRequest{
		Name: "Widget", SKU: "A1", SupplierID: &supplier.ID,
	})
	require.NoError(t, err)

	err = env.catalog.DeleteSupplier(supplier.ID)
	var ie *apperr.IntegrityError
	require.ErrorAs(t, err, &ie)

	// Detach the product and the delete goes through
	_, err = env.catalog.UpdateProduct(product.ID, &UpdateProductRequest{
		Name: "Widget", SKU: "A1",
	})
	require.NoError(t, err)
	require.NoError(t, env.catalog.DeleteSupplier(supplier.ID))

	_, err = env.supplierRepo.FindByID(supplier.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestGetProductNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.catalog.GetProduct(uuid.New())
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)
}
