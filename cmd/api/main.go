package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-stockledger/internal/handler"
	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"
	"go-stockledger/internal/service"
	"go-stockledger/internal/ws"
	"go-stockledger/pkg/config"
	"go-stockledger/pkg/database"
	"go-stockledger/pkg/logger"
	"go-stockledger/pkg/metrics"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	requestlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load("stockledger")

	if err := logger.Init(cfg.Log.Level, cfg.Server.Env, cfg.ServiceName); err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Get().Sync()

	// Chart consumers expect numeric JSON values
	decimal.MarshalJSONWithoutQuotes = true

	// 2. Setup Database
	db, err := database.Connect(cfg)
	if err != nil {
		zap.L().Fatal("Failed to connect to database", zap.Error(err))
	}
	// Auto Migrate (use a dedicated migration tool in production)
	if err := db.AutoMigrate(
		&model.Supplier{},
		&model.Product{},
		&model.StockTransaction{},
		&model.ReorderPoint{},
	); err != nil {
		zap.L().Fatal("Failed to migrate schema", zap.Error(err))
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	reorderRepo := repository.NewReorderRepo(db)

	catalogService := service.NewCatalogService(productRepo, supplierRepo, txRepo, reorderRepo, db)
	ledgerService := service.NewLedgerService(productRepo, txRepo, db, wsHub)
	alertService := service.NewAlertService(productRepo, reorderRepo, cfg.Alerts.DefaultLowStock)
	analyticsService := service.NewAnalyticsService(productRepo, supplierRepo, txRepo, cfg.Alerts.DefaultLowStock)
	csvService := service.NewImportExportService(productRepo, supplierRepo, txRepo, ledgerService, alertService)
	reportService := service.NewReportService(analyticsService, alertService, "Stock Ledger Inventory")

	productHandler := handler.NewProductHandler(catalogService)
	supplierHandler := handler.NewSupplierHandler(catalogService)
	stockHandler := handler.NewStockHandler(ledgerService, alertService)
	alertHandler := handler.NewAlertHandler(alertService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	exportHandler := handler.NewExportHandler(csvService, reportService)

	httpMetrics := metrics.New("stockledger")

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Stock Ledger v1.0",
	})

	// Middleware
	app.Use(requestlogger.New()) // Logging request
	app.Use(recover.New())       // Panic recovery
	app.Use(cors.New())          // CORS
	app.Use(httpMetrics.Middleware())

	// 6. Routes
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api/v1")

	// Catalog
	api.Get("/products", productHandler.GetProducts)
	api.Post("/products", productHandler.CreateProduct)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Put("/products/:id", productHandler.UpdateProduct)
	api.Delete("/products/:id", productHandler.DeleteProduct)

	api.Get("/suppliers", supplierHandler.GetSuppliers)
	api.Post("/suppliers", supplierHandler.CreateSupplier)
	api.Get("/suppliers/:id", supplierHandler.GetSupplier)
	api.Put("/suppliers/:id", supplierHandler.UpdateSupplier)
	api.Delete("/suppliers/:id", supplierHandler.DeleteSupplier)

	// Ledger
	api.Post("/stock/adjust", stockHandler.AdjustStock)
	api.Get("/products/:id/stock", stockHandler.GetProductStock)
	api.Get("/products/:id/transactions", stockHandler.GetProductTransactions)
	api.Get("/transactions", stockHandler.GetTransactions)
	api.Get("/transactions/:id", stockHandler.GetTransaction)

	// Alerts
	api.Get("/alerts", alertHandler.GetAlerts)
	api.Put("/products/:id/reorder-point", alertHandler.SetReorderPoint)
	api.Delete("/products/:id/reorder-point", alertHandler.DeactivateReorderPoint)

	// Analytics
	analytics := api.Group("/analytics")
	analytics.Get("/summary", analyticsHandler.GetSummary)
	analytics.Get("/top-products", analyticsHandler.GetTopProducts)
	analytics.Get("/activity", analyticsHandler.GetActivityTrend)
	analytics.Get("/stock-distribution", analyticsHandler.GetStockDistribution)
	analytics.Get("/alert-distribution", analyticsHandler.GetAlertDistribution)
	analytics.Get("/supplier-performance", analyticsHandler.GetSupplierPerformance)
	analytics.Get("/value-trend", analyticsHandler.GetValueTrend)
	analytics.Get("/forecast", analyticsHandler.GetForecast)

	// CSV + PDF
	api.Post("/import/products", exportHandler.ImportProducts)
	api.Get("/export/products.csv", exportHandler.ExportProducts)
	api.Get("/export/transactions.csv", exportHandler.ExportTransactions)
	api.Get("/export/alerts.csv", exportHandler.ExportAlerts)
	api.Get("/reports/inventory-summary.pdf", exportHandler.InventorySummaryReport)
	api.Get("/reports/low-stock.pdf", exportHandler.LowStockReport)
	api.Get("/reports/suppliers.pdf", exportHandler.SupplierPerformanceReport)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			zap.L().Panic("server stopped", zap.Error(err))
		}
	}()
	zap.L().Info("server started", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		zap.L().Fatal("server forced to shutdown", zap.Error(err))
	}
	zap.L().Info("server exited")
}
