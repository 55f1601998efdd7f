package handler

import (
	"io"

	"go-stockledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ExportHandler struct {
	csv     service.ImportExportService
	reports service.ReportService
}

func NewExportHandler(csv service.ImportExportService, reports service.ReportService) *ExportHandler {
	return &ExportHandler{csv: csv, reports: reports}
}

// ImportProducts accepts a multipart CSV upload under the "file" field and
// returns a per-row import report. Partial success is a 200.
func (h *ExportHandler) ImportProducts(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing CSV upload in 'file' field"})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not read upload"})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not read upload"})
	}

	report, err := h.csv.ImportProducts(data)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *ExportHandler) ExportProducts(c *fiber.Ctx) error {
	return h.sendCSV(c, "products.csv", h.csv.ExportProducts)
}

func (h *ExportHandler) ExportTransactions(c *fiber.Ctx) error {
	return h.sendCSV(c, "transactions.csv", h.csv.ExportTransactions)
}

func (h *ExportHandler) ExportAlerts(c *fiber.Ctx) error {
	return h.sendCSV(c, "alerts.csv", h.csv.ExportAlerts)
}

func (h *ExportHandler) sendCSV(c *fiber.Ctx, filename string, export func() ([]byte, error)) error {
	data, err := export()
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

func (h *ExportHandler) InventorySummaryReport(c *fiber.Ctx) error {
	return h.sendPDF(c, "inventory-summary.pdf", h.reports.InventorySummaryPDF)
}

func (h *ExportHandler) LowStockReport(c *fiber.Ctx) error {
	return h.sendPDF(c, "low-stock.pdf", h.reports.LowStockPDF)
}

func (h *ExportHandler) SupplierPerformanceReport(c *fiber.Ctx) error {
	return h.sendPDF(c, "supplier-performance.pdf", h.reports.SupplierPerformancePDF)
}

func (h *ExportHandler) sendPDF(c *fiber.Ctx, filename string, render func() ([]byte, error)) error {
	data, err := render()
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
