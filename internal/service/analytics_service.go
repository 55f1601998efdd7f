package service

import (
	"bytes"
	"sort"
	"time"

	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventorySummary is the dashboard KPI block.
type InventorySummary struct {
	TotalValue       decimal.Decimal `json:"total_value"`
	ProductCount     int64           `json:"product_count"`
	SupplierCount    int64           `json:"supplier_count"`
	TransactionCount int64           `json:"transaction_count"`
	OutOfStock       int             `json:"out_of_stock"`
	Critical         int             `json:"critical"`
	Warning          int             `json:"warning"`
	WellStocked      int             `json:"well_stocked"`
	ActiveAlerts     int             `json:"active_alerts"`
}

// ProductValue is one row of the top-products ranking.
type ProductValue struct {
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Value     decimal.Decimal `json:"value"`
}

// ChartPoint is a labeled value for direct chart consumption.
type ChartPoint struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// ActivityPoint is one day of transaction activity, with per-type counts.
type ActivityPoint struct {
	Date   string                        `json:"date"`
	Counts map[model.TransactionType]int `json:"counts"`
	Total  int                           `json:"total"`
}

// ValuePoint is one day of the inventory value trend.
type ValuePoint struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// SupplierPerformance aggregates inventory value and product count per supplier.
type SupplierPerformance struct {
	SupplierID   uuid.UUID       `json:"supplier_id"`
	Name         string          `json:"name"`
	ProductCount int             `json:"product_count"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

// ProductForecast is a best-effort stockout projection from recent
// outbound velocity. Heuristic only, not a statistical model.
type ProductForecast struct {
	ProductID         uuid.UUID `json:"product_id"`
	SKU               string    `json:"sku"`
	Name              string    `json:"name"`
	Quantity          int       `json:"quantity"`
	AvgDailyUsage     float64   `json:"avg_daily_usage"`
	DaysUntilStockout *float64  `json:"days_until_stockout,omitempty"`
	Risk              string    `json:"risk"`
}

// AnalyticsService computes read-only summaries over catalog, ledger, and
// derived alert state. Nothing here mutates the store; everything is
// recomputed per request.
type AnalyticsService interface {
	Summary() (*InventorySummary, error)
	TopProducts(n int) ([]ProductValue, error)
	ActivityTrend(days int) ([]ActivityPoint, error)
	StockDistribution() ([]ChartPoint, error)
	AlertDistribution() ([]ChartPoint, error)
	SupplierPerformance() ([]SupplierPerformance, error)
	ValueTrend(days int) ([]ValuePoint, error)
	Forecast(windowDays int) ([]ProductForecast, error)
}

type analyticsService struct {
	productRepo     repository.ProductRepository
	supplierRepo    repository.SupplierRepository
	txRepo          repository.TransactionRepository
	defaultLowStock int
}

func NewAnalyticsService(
	pRepo repository.ProductRepository,
	sRepo repository.SupplierRepository,
	tRepo repository.TransactionRepository,
	defaultLowStock int,
) AnalyticsService {
	return &analyticsService{
		productRepo:     pRepo,
		supplierRepo:    sRepo,
		txRepo:          tRepo,
		defaultLowStock: defaultLowStock,
	}
}

func (s *analyticsService) severityCounts(products []model.Product) map[model.StockSeverity]int {
	counts := make(map[model.StockSeverity]int)
	for i := range products {
		sev := ClassifySeverity(products[i].Quantity, products[i].ReorderPoint, s.defaultLowStock)
		counts[sev]++
	}
	return counts
}

func (s *analyticsService) Summary() (*InventorySummary, error) {
	products, err := s.productRepo.FindAllWithAlertData()
	if err != nil {
		return nil, err
	}
	supplierCount, err := s.supplierRepo.Count()
	if err != nil {
		return nil, err
	}
	txCount, err := s.txRepo.Count()
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for i := range products {
		total = total.Add(products[i].StockValue())
	}
	counts := s.severityCounts(products)

	return &InventorySummary{
		TotalValue:       total,
		ProductCount:     int64(len(products)),
		SupplierCount:    supplierCount,
		TransactionCount: txCount,
		OutOfStock:       counts[model.SeverityOutOfStock],
		Critical:         counts[model.SeverityCritical],
		Warning:          counts[model.SeverityWarning],
		WellStocked:      counts[model.SeverityWellStocked],
		ActiveAlerts:     counts[model.SeverityOutOfStock] + counts[model.SeverityCritical] + counts[model.SeverityWarning],
	}, nil
}

// TopProducts ranks by price*quantity descending; ties break by id ascending.
func (s *analyticsService) TopProducts(n int) ([]ProductValue, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	ranked := make([]ProductValue, 0, len(products))
	for i := range products {
		p := &products[i]
		ranked = append(ranked, ProductValue{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Quantity:  p.Quantity,
			Price:     p.Price,
			Value:     p.StockValue(),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		cmp := ranked[i].Value.Cmp(ranked[j].Value)
		if cmp != 0 {
			return cmp > 0
		}
		return bytes.Compare(ranked[i].ProductID[:], ranked[j].ProductID[:]) < 0
	})

	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// ActivityTrend counts transactions per day per type over the trailing
// period, zero-filling days with no activity.
func (s *analyticsService) ActivityTrend(days int) ([]ActivityPoint, error) {
	if days <= 0 {
		days = 7
	}
	end := time.Now()
	start := dayStart(end).AddDate(0, 0, -(days - 1))

	entries, err := s.txRepo.FindInPeriod(start, end)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]map[model.TransactionType]int)
	for i := range entries {
		key := entries[i].CreatedAt.Format("2006-01-02")
		if byDay[key] == nil {
			byDay[key] = make(map[model.TransactionType]int)
		}
		byDay[key][entries[i].Type]++
	}

	points := make([]ActivityPoint, 0, days)
	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)
		key := day.Format("2006-01-02")
		counts := make(map[model.TransactionType]int, len(model.TransactionTypes()))
		total := 0
		for _, t := range model.TransactionTypes() {
			c := byDay[key][t]
			counts[t] = c
			total += c
		}
		points = append(points, ActivityPoint{Date: key, Counts: counts, Total: total})
	}
	return points, nil
}

func (s *analyticsService) StockDistribution() ([]ChartPoint, error) {
	products, err := s.productRepo.FindAllWithAlertData()
	if err != nil {
		return nil, err
	}
	counts := s.severityCounts(products)

	points := make([]ChartPoint, 0, len(model.Severities()))
	for _, sev := range model.Severities() {
		points = append(points, ChartPoint{Label: string(sev), Value: counts[sev]})
	}
	return points, nil
}

func (s *analyticsService) AlertDistribution() ([]ChartPoint, error) {
	points, err := s.StockDistribution()
	if err != nil {
		return nil, err
	}
	// Alerts exclude the healthy bucket
	filtered := make([]ChartPoint, 0, len(points))
	for _, p := range points {
		if p.Label != string(model.SeverityWellStocked) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (s *analyticsService) SupplierPerformance() ([]SupplierPerformance, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}
	suppliers, err := s.supplierRepo.FindAll()
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*SupplierPerformance, len(suppliers))
	for i := range suppliers {
		byID[suppliers[i].ID] = &SupplierPerformance{
			SupplierID: suppliers[i].ID,
			Name:       suppliers[i].Name,
			TotalValue: decimal.Zero,
		}
	}
	for i := range products {
		if products[i].SupplierID == nil {
			continue
		}
		perf, ok := byID[*products[i].SupplierID]
		if !ok {
			continue
		}
		perf.ProductCount++
		perf.TotalValue = perf.TotalValue.Add(products[i].StockValue())
	}

	ranked := make([]SupplierPerformance, 0, len(byID))
	for _, perf := range byID {
		ranked = append(ranked, *perf)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		cmp := ranked[i].TotalValue.Cmp(ranked[j].TotalValue)
		if cmp != 0 {
			return cmp > 0
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked, nil
}

// ValueTrend reconstructs the per-day total inventory value by replaying
// ledger deltas backward from the current snapshot.
func (s *analyticsService) ValueTrend(days int) ([]ValuePoint, error) {
	if days <= 0 {
		days = 30
	}
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}
	current := decimal.Zero
	for i := range products {
		current = current.Add(products[i].StockValue())
	}

	end := time.Now()
	start := dayStart(end).AddDate(0, 0, -(days - 1))
	entries, err := s.txRepo.FindInPeriod(start, end)
	if err != nil {
		return nil, err
	}

	// Value moved per day: sum(quantity_change * price)
	dayDelta := make(map[string]decimal.Decimal)
	for i := range entries {
		e := &entries[i]
		if e.Product == nil {
			continue
		}
		key := e.CreatedAt.Format("2006-01-02")
		delta := e.Product.Price.Mul(decimal.NewFromInt(int64(e.QuantityChange)))
		dayDelta[key] = dayDelta[key].Add(delta)
	}

	// Walk backward: end-of-day value for day d-1 is day d minus d's delta.
	values := make([]decimal.Decimal, days)
	values[days-1] = current
	for d := days - 1; d > 0; d-- {
		key := start.AddDate(0, 0, d).Format("2006-01-02")
		values[d-1] = values[d].Sub(dayDelta[key])
	}

	points := make([]ValuePoint, 0, days)
	for d := 0; d < days; d++ {
		points = append(points, ValuePoint{
			Date:  start.AddDate(0, 0, d).Format("2006-01-02"),
			Value: values[d],
		})
	}
	return points, nil
}

// Forecast projects days until stockout from average daily outbound volume
// over the window. Products with no outbound movement carry no projection.
func (s *analyticsService) Forecast(windowDays int) ([]ProductForecast, error) {
	if windowDays <= 0 {
		windowDays = 30
	}
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	end := time.Now()
	start := dayStart(end).AddDate(0, 0, -(windowDays - 1))
	entries, err := s.txRepo.FindInPeriod(start, end)
	if err != nil {
		return nil, err
	}

	outbound := make(map[uuid.UUID]int)
	for i := range entries {
		if entries[i].IsIncrease() {
			continue
		}
		outbound[entries[i].ProductID] += -entries[i].QuantityChange
	}

	forecasts := make([]ProductForecast, 0, len(products))
	for i := range products {
		p := &products[i]
		avg := float64(outbound[p.ID]) / float64(windowDays)
		f := ProductForecast{
			ProductID:     p.ID,
			SKU:           p.SKU,
			Name:          p.Name,
			Quantity:      p.Quantity,
			AvgDailyUsage: avg,
		}
		switch {
		case p.Quantity == 0:
			f.Risk = "stockout"
		case avg == 0:
			f.Risk = "none"
		default:
			daysLeft := float64(p.Quantity) / avg
			f.DaysUntilStockout = &daysLeft
			switch {
			case daysLeft <= 7:
				f.Risk = "high"
			case daysLeft <= 30:
				f.Risk = "moderate"
			default:
				f.Risk = "low"
			}
		}
		forecasts = append(forecasts, f)
	}

	sort.SliceStable(forecasts, func(i, j int) bool {
		return riskRank(forecasts[i].Risk) > riskRank(forecasts[j].Risk)
	})
	return forecasts, nil
}

func riskRank(risk string) int {
	switch risk {
	case "stockout":
		return 4
	case "high":
		return 3
	case "moderate":
		return 2
	case "low":
		return 1
	}
	return 0
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
