package service

import (
	"testing"

	"go-stockledger/internal/apperr"
	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAdjustmentAppendsEntryAndMovesQuantity(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "A1", "Widget", "5.00", 20)
	env.setReorderPoint(t, product, 10, 50)

	entry, err := env.ledger.RecordAdjustment(&AdjustStockRequest{
		ProductID: product.ID,
		Delta:     intPtr(-15),
		Type:      model.TxSale,
		Reason:    "bulk order",
	})
	require.NoError(t, err)

	assert.Equal(t, 20, entry.QuantityBefore)
	assert.Equal(t, 5, entry.QuantityAfter)
	assert.Equal(t, -15, entry.QuantityChange)
	assert.Equal(t, entry.QuantityBefore+entry.QuantityChange, entry.QuantityAfter)
	assert.False(t, entry.IsIncrease())

	stored, err := env.productRepo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.QuantityAfter, stored.Quantity)

	status, err := env.alerts.ProductStock(product.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SeverityCritical, status.Severity)

	// Draining the remaining stock flips the alert to out_of_stock
	env.adjust(t, product, -5, model.TxSale)
	status, err = env.alerts.ProductStock(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, status.Quantity)
	assert.Equal(t, model.SeverityOutOfStock, status.Severity)
}

func TestRecordAdjustmentRejectsNegativeResult(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "A1", "Widget", "5.00", 10)

	_, err := env.ledger.RecordAdjustment(&AdjustStockRequest{
		ProductID: product.ID,
		Delta:     intPtr(-11),
		Type:      model.TxSale,
	})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)

	// Neither the product nor the ledger changed
	stored, err := env.productRepo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Quantity)

	count, err := env.txRepo.CountByProduct(nil, product.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRecordAdjustmentAbsoluteQuantity(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "A1", "Widget", "5.00", 10)

	entry, err := env.ledger.RecordAdjustment(&AdjustStockRequest{
		ProductID: product.ID,
		Quantity:  intPtr(25),
		Type:      model.TxPurchase,
	})
	require.NoError(t, err)
	assert.Equal(t, 15, entry.QuantityChange)
	assert.Equal(t, 25, entry.QuantityAfter)
	assert.True(t, entry.IsIncrease())
}

func TestRecordAdjustmentInputValidation(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "A1", "Widget", "5.00", 10)

	tests := []struct {
		name string
		req  *AdjustStockRequest
	}{
		{"missing product", &AdjustStockRequest{Delta: intPtr(1), Type: model.TxSale}},
		{"both delta and quantity", &AdjustStockRequest{ProductID: product.ID, Delta: intPtr(1), Quantity: intPtr(5), Type: model.TxSale}},
		{"neither delta nor quantity", &AdjustStockRequest{ProductID: product.ID, Type: model.TxSale}},
		{"unknown type", &AdjustStockRequest{ProductID: product.ID, Delta: intPtr(1), Type: "refund"}},
		{"zero delta", &AdjustStockRequest{ProductID: product.ID, Delta: intPtr(0), Type: model.TxSale}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.ledger.RecordAdjustment(tc.req)
			var ve *apperr.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestRecordAdjustmentUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.RecordAdjustment(&AdjustStockRequest{
		ProductID: uuid.New(),
		Delta:     intPtr(1),
		Type:      model.TxPurchase,
	})
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestListForProductFiltersByType(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "A1", "Widget", "5.00", 100)

	env.adjust(t, product, -5, model.TxSale)
	env.adjust(t, product, 20, model.TxPurchase)
	env.adjust(t, product, -3, model.TxSale)

	sales, err := env.ledger.ListForProduct(product.ID, repository.TransactionFilter{Type: model.TxSale})
	require.NoError(t, err)
	require.Len(t, sales, 2)
	for _, e := range sales {
		assert.Equal(t, model.TxSale, e.Type)
	}

	all, err := env.ledger.ListForProduct(product.ID, repository.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Restartable pagination
	page, err := env.ledger.ListForProduct(product.ID, repository.TransactionFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestLedgerChainStaysConsistent(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "A1", "Widget", "1.00", 50)

	deltas := []int{-10, 5, -20, 25, -50}
	for _, d := range deltas {
		env.adjust(t, product, d, model.TxManualAdjustment)
	}

	entries, err := env.ledger.ListForProduct(product.ID, repository.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, entries, len(deltas))
	for _, e := range entries {
		assert.Equal(t, e.QuantityBefore+e.QuantityChange, e.QuantityAfter)
		assert.GreaterOrEqual(t, e.QuantityAfter, 0)
	}

	stored, err := env.productRepo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Quantity)
}
