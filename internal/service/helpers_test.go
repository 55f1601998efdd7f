package service

import (
	"testing"

	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testDefaultLowStock = 10

type testEnv struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	txRepo       repository.TransactionRepository
	reorderRepo  repository.ReorderPointRepository

	catalog   CatalogService
	ledger    LedgerService
	alerts    AlertService
	analytics AnalyticsService
	csv       ImportExportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A pooled :memory: database is one database per connection
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Supplier{},
		&model.Product{},
		&model.StockTransaction{},
		&model.ReorderPoint{},
	))

	env := &testEnv{
		db:           db,
		productRepo:  repository.NewProductRepo(db),
		supplierRepo: repository.NewSupplierRepo(db),
		txRepo:       repository.NewTransactionRepo(db),
		reorderRepo:  repository.NewReorderRepo(db),
	}
	env.catalog = NewCatalogService(env.productRepo, env.supplierRepo, env.txRepo, env.reorderRepo, db)
	env.ledger = NewLedgerService(env.productRepo, env.txRepo, db, nil)
	env.alerts = NewAlertService(env.productRepo, env.reorderRepo, testDefaultLowStock)
	env.analytics = NewAnalyticsService(env.productRepo, env.supplierRepo, env.txRepo, testDefaultLowStock)
	env.csv = NewImportExportService(env.productRepo, env.supplierRepo, env.txRepo, env.ledger, env.alerts)
	return env
}

func (e *testEnv) createProduct(t *testing.T, sku, name, price string, quantity int) *model.Product {
	t.Helper()
	product, err := e.catalog.CreateProduct(&CreateProductRequest{
		Name:     name,
		SKU:      sku,
		Price:    decimal.RequireFromString(price),
		Quantity: quantity,
	})
	require.NoError(t, err)
	return product
}

func (e *testEnv) setReorderPoint(t *testing.T, product *model.Product, minimum, reorder int) {
	t.Helper()
	_, err := e.alerts.SetReorderPoint(product.ID, &SetReorderPointRequest{
		MinimumQuantity: minimum,
		ReorderQuantity: reorder,
	})
	require.NoError(t, err)
}

func (e *testEnv) adjust(t *testing.T, product *model.Product, delta int, txType model.TransactionType) *model.StockTransaction {
	t.Helper()
	entry, err := e.ledger.RecordAdjustment(&AdjustStockRequest{
		ProductID: product.ID,
		Delta:     &delta,
		Type:      txType,
	})
	require.NoError(t, err)
	return entry
}

func intPtr(v int) *int { return &v }
