package handler

import (
	"go-stockledger/internal/model"
	"go-stockledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AlertHandler struct {
	alerts service.AlertService
}

func NewAlertHandler(alerts service.AlertService) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// GetAlerts lists all products in an unhealthy stock state, optionally
// filtered by ?severity=.
func (h *AlertHandler) GetAlerts(c *fiber.Ctx) error {
	severity := model.StockSeverity(c.Query("severity"))
	if severity != "" {
		switch severity {
		case model.SeverityOutOfStock, model.SeverityCritical, model.SeverityWarning:
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown severity"})
		}
	}

	alerts, err := h.alerts.ListAlerts(severity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": len(alerts), "data": alerts})
}

func (h *AlertHandler) SetReorderPoint(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.SetReorderPointRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	rp, err := h.alerts.SetReorderPoint(id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reorder point saved", "data": rp})
}

func (h *AlertHandler) DeactivateReorderPoint(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.alerts.DeactivateReorderPoint(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reorder point deactivated"})
}
