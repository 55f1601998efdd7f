package handler

import (
	"strconv"
	"time"

	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"
	"go-stockledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StockHandler struct {
	ledger service.LedgerService
	alerts service.AlertService
}

func NewStockHandler(ledger service.LedgerService, alerts service.AlertService) *StockHandler {
	return &StockHandler{ledger: ledger, alerts: alerts}
}

// AdjustStock is the single stock-mutation entry point.
func (h *StockHandler) AdjustStock(c *fiber.Ctx) error {
	var req service.AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	entry, err := h.ledger.RecordAdjustment(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Adjustment recorded", "data": entry})
}

// GetProductStock returns current quantity, derived severity, and the
// reorder suggestion when one applies.
func (h *StockHandler) GetProductStock(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	status, err := h.alerts.ProductStock(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(status)
}

// GetProductTransactions lists the product's ledger, newest first.
// Query params: type, from, to (RFC 3339 or 2006-01-02), limit, offset.
func (h *StockHandler) GetProductTransactions(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	filter := repository.TransactionFilter{
		Type:   model.TransactionType(c.Query("type")),
		Limit:  queryInt(c, "limit", 50),
		Offset: queryInt(c, "offset", 0),
	}
	if from, ok := parseDate(c.Query("from")); ok {
		filter.From = &from
	}
	if to, ok := parseDate(c.Query("to")); ok {
		filter.To = &to
	}

	entries, err := h.ledger.ListForProduct(id, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"limit":  filter.Limit,
		"offset": filter.Offset,
		"data":   entries,
	})
}

func (h *StockHandler) GetTransactions(c *fiber.Ctx) error {
	entries, err := h.ledger.ListTransactions(queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

func (h *StockHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	entry, err := h.ledger.GetTransaction(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key, strconv.Itoa(fallback)))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
