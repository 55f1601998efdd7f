package service

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// ReportService renders the analytics and alert outputs as PDF documents.
// It holds no business logic of its own: every number comes from the
// aggregation layer.
type ReportService interface {
	InventorySummaryPDF() ([]byte, error)
	LowStockPDF() ([]byte, error)
	SupplierPerformancePDF() ([]byte, error)
}

type reportService struct {
	analytics   AnalyticsService
	alerts      AlertService
	companyName string
}

func NewReportService(analytics AnalyticsService, alerts AlertService, companyName string) ReportService {
	return &reportService{
		analytics:   analytics,
		alerts:      alerts,
		companyName: companyName,
	}
}

func (s *reportService) newDoc(title string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 10, s.companyName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(52, 152, 219)
	pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(127, 140, 141)
	pdf.CellFormat(0, 6, "Generated on "+time.Now().Format("January 2, 2006 at 3:04 PM"), "", 1, "C", false, 0, "")
	pdf.Ln(4)
	return pdf
}

func sectionHeader(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func table(pdf *gofpdf.Fpdf, headers []string, widths []float64, rows [][]string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(44, 62, 80)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	fill := false
	for _, row := range rows {
		pdf.SetFillColor(236, 240, 241)
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
		fill = !fill
	}
	pdf.Ln(4)
}

func kpiBlock(pdf *gofpdf.Fpdf, metrics [][2]string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, m := range metrics {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(70, 7, m[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 7, m[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *reportService) InventorySummaryPDF() ([]byte, error) {
	summary, err := s.analytics.Summary()
	if err != nil {
		return nil, err
	}
	top, err := s.analytics.TopProducts(10)
	if err != nil {
		return nil, err
	}

	pdf := s.newDoc("Inventory Summary Report")

	sectionHeader(pdf, "Key Performance Indicators")
	kpiBlock(pdf, [][2]string{
		{"Total Inventory Value", "$" + summary.TotalValue.StringFixed(2)},
		{"Products", strconv.FormatInt(summary.ProductCount, 10)},
		{"Suppliers", strconv.FormatInt(summary.SupplierCount, 10)},
		{"Ledger Entries", strconv.FormatInt(summary.TransactionCount, 10)},
		{"Active Alerts", strconv.Itoa(summary.ActiveAlerts)},
	})

	sectionHeader(pdf, "Stock Health")
	kpiBlock(pdf, [][2]string{
		{"Out of Stock", strconv.Itoa(summary.OutOfStock)},
		{"Critical", strconv.Itoa(summary.Critical)},
		{"Warning", strconv.Itoa(summary.Warning)},
		{"Well Stocked", strconv.Itoa(summary.WellStocked)},
	})

	sectionHeader(pdf, "Top Products by Value")
	rows := make([][]string, 0, len(top))
	for _, p := range top {
		rows = append(rows, []string{
			p.Name, p.SKU, strconv.Itoa(p.Quantity),
			"$" + p.Price.StringFixed(2), "$" + p.Value.StringFixed(2),
		})
	}
	table(pdf, []string{"Product", "SKU", "Qty", "Price", "Value"}, []float64{60, 35, 20, 35, 40}, rows)

	return output(pdf)
}

func (s *reportService) LowStockPDF() ([]byte, error) {
	alerts, err := s.alerts.ListAlerts("")
	if err != nil {
		return nil, err
	}

	pdf := s.newDoc("Low Stock Alert Report")

	sectionHeader(pdf, fmt.Sprintf("Products Needing Attention (%d)", len(alerts)))
	if len(alerts) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(39, 174, 96)
		pdf.CellFormat(0, 8, "All products are well stocked.", "", 1, "L", false, 0, "")
		return output(pdf)
	}

	rows := make([][]string, 0, len(alerts))
	for _, a := range alerts {
		minimum := "-"
		if a.Minimum != nil {
			minimum = strconv.Itoa(*a.Minimum)
		}
		suggested := "-"
		if a.Suggestion != nil {
			suggested = strconv.Itoa(a.Suggestion.Quantity)
		}
		rows = append(rows, []string{
			a.Name, a.SKU, strconv.Itoa(a.Quantity), minimum, string(a.Severity), suggested,
		})
	}
	table(pdf,
		[]string{"Product", "SKU", "Qty", "Minimum", "Severity", "Reorder"},
		[]float64{50, 30, 18, 22, 35, 25}, rows)

	return output(pdf)
}

func (s *reportService) SupplierPerformancePDF() ([]byte, error) {
	performance, err := s.analytics.SupplierPerformance()
	if err != nil {
		return nil, err
	}

	pdf := s.newDoc("Supplier Performance Report")

	sectionHeader(pdf, "Suppliers Ranked by Inventory Value")
	rows := make([][]string, 0, len(performance))
	for _, p := range performance {
		rows = append(rows, []string{
			p.Name, strconv.Itoa(p.ProductCount), "$" + p.TotalValue.StringFixed(2),
		})
	}
	table(pdf, []string{"Supplier", "Products", "Inventory Value"}, []float64{90, 40, 60}, rows)

	return output(pdf)
}
