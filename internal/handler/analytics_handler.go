package handler

import (
	"go-stockledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AnalyticsHandler struct {
	analytics service.AnalyticsService
}

func NewAnalyticsHandler(analytics service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func (h *AnalyticsHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.analytics.Summary()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// GetTopProducts returns the top N products by stock value (?limit=, default 10).
func (h *AnalyticsHandler) GetTopProducts(c *fiber.Ctx) error {
	top, err := h.analytics.TopProducts(queryInt(c, "limit", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": top})
}

// GetActivityTrend returns per-day transaction counts (?days=, default 7).
func (h *AnalyticsHandler) GetActivityTrend(c *fiber.Ctx) error {
	days := queryInt(c, "days", 7)
	trend, err := h.analytics.ActivityTrend(days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"period": days, "data": trend})
}

func (h *AnalyticsHandler) GetStockDistribution(c *fiber.Ctx) error {
	points, err := h.analytics.StockDistribution()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": points})
}

func (h *AnalyticsHandler) GetAlertDistribution(c *fiber.Ctx) error {
	points, err := h.analytics.AlertDistribution()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": points})
}

func (h *AnalyticsHandler) GetSupplierPerformance(c *fiber.Ctx) error {
	performance, err := h.analytics.SupplierPerformance()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": performance})
}

// GetValueTrend returns the reconstructed per-day inventory value (?days=, default 30).
func (h *AnalyticsHandler) GetValueTrend(c *fiber.Ctx) error {
	days := queryInt(c, "days", 30)
	trend, err := h.analytics.ValueTrend(days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"period": days, "data": trend})
}

// GetForecast returns heuristic stockout projections (?window=, default 30).
func (h *AnalyticsHandler) GetForecast(c *fiber.Ctx) error {
	window := queryInt(c, "window", 30)
	forecasts, err := h.analytics.Forecast(window)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"window": window, "data": forecasts})
}
