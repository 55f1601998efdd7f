package service

import (
	"strings"
	"testing"

	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const importCSV = `sku,name,description,price,quantity,supplier
A1,Widget,Basic widget,5.00,20,Acme Parts
B2,Gadget,,12.50,8,Acme Parts
C3,Gizmo,Fancy gizmo,99.99,2,
`

func TestImportCreatesProductsAndSuppliers(t *testing.T) {
	env := newTestEnv(t)

	report, err := env.csv.ImportProducts([]byte(importCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, report.Created)
	assert.Zero(t, report.Updated)
	assert.Empty(t, report.Errors)

	// Supplier auto-created once and shared
	supplier, err := env.supplierRepo.FindByName("Acme Parts")
	require.NoError(t, err)
	count, err := env.productRepo.CountBySupplier(supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	product, err := env.productRepo.FindBySKU("A1")
	require.NoError(t, err)
	assert.Equal(t, 20, product.Quantity)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("5.00")))

	// Initial creation is not a stock movement
	txCount, err := env.txRepo.Count()
	require.NoError(t, err)
	assert.Zero(t, txCount)
}

func TestImportIsIdempotent(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.csv.ImportProducts([]byte(importCSV))
	require.NoError(t, err)

	report, err := env.csv.ImportProducts([]byte(importCSV))
	require.NoError(t, err)
	assert.Zero(t, report.Created)
	assert.Zero(t, report.Updated)
	assert.Equal(t, 3, report.Unchanged)

	// Re-importing an unchanged file produces zero new ledger entries
	txCount, err := env.txRepo.Count()
	require.NoError(t, err)
	assert.Zero(t, txCount)
}

func TestImportRoutesQuantityChangeThroughLedger(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "A1", "Widget", "5.00", 20)

	csv := "sku,name,description,price,quantity,supplier\nA1,Widget,,5.00,12,\n"
	report, err := env.csv.ImportProducts([]byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)

	entries, err := env.txRepo.FindByProduct(product.ID, repository.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1, "exactly one ledger entry, not a silent overwrite")
	assert.Equal(t, model.TxCorrection, entries[0].Type)
	assert.Equal(t, 20, entries[0].QuantityBefore)
	assert.Equal(t, 12, entries[0].QuantityAfter)
	assert.Equal(t, -8, entries[0].QuantityChange)

	stored, err := env.productRepo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, stored.Quantity)
}

func TestImportAccumulatesRowErrors(t *testing.T) {
	env := newTestEnv(t)

	csv := strings.Join([]string{
		"sku,name,description,price,quantity,supplier",
		"A1,Widget,,5.00,20,",
		",Nameless,,1.00,5,",      // missing sku
		"B2,Gadget,,not-money,5,", // bad price
		"C3,Gizmo,,1.00,-4,",      // negative quantity
		"D4,Doodad,,2.00,7,",
	}, "\n")

	report, err := env.csv.ImportProducts([]byte(csv))
	require.NoError(t, err)

	// The batch continues past bad rows
	assert.Equal(t, 2, report.Created)
	require.Len(t, report.Errors, 3)
	assert.Equal(t, 3, report.Errors[0].Row)
	assert.Equal(t, "B2", report.Errors[1].SKU)
	assert.Contains(t, report.Errors[1].Message, "price")

	_, err = env.productRepo.FindBySKU("D4")
	assert.NoError(t, err)
}

func TestExportProductsHasStableColumns(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, "A1", "Widget", "5.00", 20)

	data, err := env.csv.ExportProducts()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "sku,name,description,price,quantity,supplier,stock_value", lines[0])
	assert.Equal(t, "A1,Widget,,5.00,20,,100.00", lines[1])
}

func TestExportTransactionsAndAlerts(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "A1", "Widget", "5.00", 20)
	env.setReorderPoint(t, product, 10, 50)
	env.adjust(t, product, -15, model.TxSale)

	txData, err := env.csv.ExportTransactions()
	require.NoError(t, err)
	txLines := strings.Split(strings.TrimSpace(string(txData)), "\n")
	require.Len(t, txLines, 2)
	assert.Equal(t, "created_at,product_sku,type,quantity_change,quantity_before,quantity_after,reason,notes", txLines[0])
	assert.Contains(t, txLines[1], ",A1,sale,-15,20,5,")

	alertData, err := env.csv.ExportAlerts()
	require.NoError(t, err)
	alertLines := strings.Split(strings.TrimSpace(string(alertData)), "\n")
	require.Len(t, alertLines, 2)
	assert.Equal(t, "sku,name,quantity,minimum_quantity,severity,suggested_reorder_quantity", alertLines[0])
	assert.Equal(t, "A1,Widget,5,10,critical,50", alertLines[1])
}
